package store

import "github.com/givechain/donation-service/internal/domain"

// SeedCharities returns the built-in charity catalog used when no database is
// configured or the charities table is empty. Amounts are in the native token.
func SeedCharities() []domain.Charity {
	return []domain.Charity{
		{
			ID:           "ch_rainforest_watch",
			Name:         "Rainforest Watch",
			Category:     "Environment",
			Description:  "Satellite monitoring and legal defense for threatened rainforest.",
			Impact:       domain.ImpactSystemic,
			Geography:    domain.GeographyInternational,
			Transparency: domain.TransparencyHigh,
			Size:         domain.SizeLarge,
			Verified:     true,
			ImageURL:     "https://images.givechain.org/charities/rainforest-watch.jpg",
			TargetAmount: 500,
			RaisedAmount: 182.4,
			Address:      "0x71C7656EC7ab88b098defB751B7401B5f6d8976F",
			About:        "Rainforest Watch combines satellite imagery with on-the-ground partners to detect illegal logging within days and fund legal action against it.",
			Financials:   "82% programs, 11% operations, 7% fundraising.",
			Updates: []domain.CharityUpdate{
				{Date: "2025-06-12", Text: "Secured protection order covering 40,000 hectares in the Amazon basin."},
				{Date: "2025-03-02", Text: "Launched real-time deforestation alerts for three new regions."},
			},
		},
		{
			ID:           "ch_mobile_clinics",
			Name:         "Mobile Clinic Fund",
			Category:     "Health",
			Description:  "Staffed medical vans bringing primary care to underserved neighborhoods.",
			Impact:       domain.ImpactDirect,
			Geography:    domain.GeographyLocal,
			Transparency: domain.TransparencyMedium,
			Size:         domain.SizeSmall,
			Verified:     true,
			ImageURL:     "https://images.givechain.org/charities/mobile-clinics.jpg",
			TargetAmount: 120,
			RaisedAmount: 96.1,
			Address:      "0x2546BcD3c84621e976D8185a91A922aE77ECEc30",
			About:        "Each van serves roughly 300 patients a month with vaccinations, screenings and referrals, prioritizing areas more than 30 minutes from a hospital.",
			Financials:   "75% programs, 18% operations, 7% fundraising.",
			Updates: []domain.CharityUpdate{
				{Date: "2025-05-20", Text: "Third van entered service; weekend coverage doubled."},
			},
		},
		{
			ID:           "ch_open_tutors",
			Name:         "Open Tutors",
			Category:     "Education",
			Description:  "Free one-on-one tutoring for students in under-resourced schools.",
			Impact:       domain.ImpactCommunity,
			Geography:    domain.GeographyNational,
			Transparency: domain.TransparencyHigh,
			Size:         domain.SizeMedium,
			Verified:     true,
			ImageURL:     "https://images.givechain.org/charities/open-tutors.jpg",
			TargetAmount: 200,
			RaisedAmount: 44.75,
			Address:      "0xbDA5747bFD65F08deb54cb465eB87D40e51B197E",
			About:        "Open Tutors matches vetted volunteers with students for weekly sessions and tracks progress against each school's own benchmarks.",
			Financials:   "79% programs, 14% operations, 7% fundraising.",
			Updates: []domain.CharityUpdate{
				{Date: "2025-04-18", Text: "Crossed 10,000 completed tutoring sessions this school year."},
			},
		},
		{
			ID:           "ch_malaria_lab",
			Name:         "Malaria Vaccine Lab",
			Category:     "Health",
			Description:  "Funding late-stage research into next-generation malaria vaccines.",
			Impact:       domain.ImpactResearch,
			Geography:    domain.GeographyInternational,
			Transparency: domain.TransparencyHigh,
			Size:         domain.SizeLarge,
			Verified:     true,
			ImageURL:     "https://images.givechain.org/charities/malaria-lab.jpg",
			TargetAmount: 800,
			RaisedAmount: 510,
			Address:      "0xdD2FD4581271e230360230F9337D5c0430Bf44C0",
			About:        "The lab runs multi-site trials across four countries and publishes all datasets openly within six months of collection.",
			Financials:   "88% programs, 9% operations, 3% fundraising.",
			Updates: []domain.CharityUpdate{
				{Date: "2025-07-01", Text: "Phase II trial enrollment completed two months ahead of schedule."},
			},
		},
		{
			ID:           "ch_harvest_share",
			Name:         "Harvest Share",
			Category:     "Food Security",
			Description:  "Redistributing surplus farm produce to community food banks.",
			Impact:       domain.ImpactDirect,
			Geography:    domain.GeographyNational,
			Transparency: domain.TransparencyMedium,
			Size:         domain.SizeMedium,
			Verified:     false,
			ImageURL:     "https://images.givechain.org/charities/harvest-share.jpg",
			TargetAmount: 150,
			RaisedAmount: 12.3,
			Address:      "0x8626f6940E2eb28930eFb4CeF49B2d1F2C9C1199",
			About:        "Harvest Share coordinates refrigerated transport between farms with surplus and food banks with shortage, cutting spoilage on both ends.",
			Financials:   "71% programs, 22% operations, 7% fundraising.",
			Updates: []domain.CharityUpdate{
				{Date: "2025-02-14", Text: "Partnered with 28 new farms for the spring season."},
			},
		},
		{
			ID:           "ch_city_arts",
			Name:         "City Arts Collective",
			Category:     "Arts",
			Description:  "Free studio space and materials for emerging artists.",
			Impact:       domain.ImpactCommunity,
			Geography:    domain.GeographyLocal,
			Transparency: domain.TransparencyLow,
			Size:         domain.SizeSmall,
			Verified:     false,
			ImageURL:     "https://images.givechain.org/charities/city-arts.jpg",
			TargetAmount: 60,
			RaisedAmount: 71.5, // over target: rendering clamps progress at 100
			Address:      "0xcd3B766CCDd6AE721141F452C550Ca635964ce71",
			About:        "A converted warehouse offering rotating residencies, open studio nights and youth workshops.",
			Financials:   "68% programs, 25% operations, 7% fundraising.",
			Updates: []domain.CharityUpdate{
				{Date: "2025-01-30", Text: "Annual open-house drew a record 1,200 visitors."},
			},
		},
	}
}

// SeedQuizQuestions returns the preference quiz in its authored order. The
// question ids double as the answer keys consumed by the matching engine.
func SeedQuizQuestions() []domain.QuizQuestion {
	return []domain.QuizQuestion{
		{
			ID:     "category",
			Prompt: "Which cause matters most to you?",
			Type:   domain.QuestionSelect,
			Options: []domain.QuizOption{
				{Label: "Environment", Value: "Environment"},
				{Label: "Health", Value: "Health"},
				{Label: "Education", Value: "Education"},
				{Label: "Food Security", Value: "Food Security"},
				{Label: "Arts", Value: "Arts"},
			},
		},
		{
			ID:     "budget",
			Prompt: "How much do you usually like to give?",
			Type:   domain.QuestionSelect,
			Options: []domain.QuizOption{
				{Label: "A little, often", Value: "low"},
				{Label: "A moderate amount", Value: "medium"},
				{Label: "A substantial amount", Value: "high"},
				{Label: "As much as it takes", Value: "very_high"},
			},
		},
		{
			ID:     "impact",
			Prompt: "What kind of impact do you want your donation to have?",
			Type:   domain.QuestionSelect,
			Options: []domain.QuizOption{
				{Label: "Direct aid to people in need", Value: domain.ImpactDirect},
				{Label: "Systemic, long-term change", Value: domain.ImpactSystemic},
				{Label: "Research and innovation", Value: domain.ImpactResearch},
				{Label: "Strengthening communities", Value: domain.ImpactCommunity},
			},
		},
		{
			ID:     "geography",
			Prompt: "Where should your donation do its work?",
			Type:   domain.QuestionSelect,
			Options: []domain.QuizOption{
				{Label: "My local area", Value: domain.GeographyLocal},
				{Label: "Across the country", Value: domain.GeographyNational},
				{Label: "Around the world", Value: domain.GeographyInternational},
			},
		},
		{
			ID:     "transparency",
			Prompt: "How important is detailed financial reporting to you?",
			Type:   domain.QuestionSelect,
			Options: []domain.QuizOption{
				{Label: "Essential", Value: domain.TransparencyHigh},
				{Label: "Nice to have", Value: domain.TransparencyMedium},
				{Label: "Not a priority", Value: domain.TransparencyLow},
			},
		},
		{
			ID:     "size",
			Prompt: "Do you prefer supporting organizations of a particular size?",
			Type:   domain.QuestionSelect,
			Options: []domain.QuizOption{
				{Label: "Small and grassroots", Value: domain.SizeSmall},
				{Label: "Mid-sized", Value: domain.SizeMedium},
				{Label: "Large and established", Value: domain.SizeLarge},
				{Label: "No preference", Value: domain.SizeAny},
			},
		},
	}
}
