package resources

func newsSeeds() []Record {
	return []Record{
		{"title": "Quarterly results published", "description": "Revenue grew across every business line during the third quarter, led by the energy and logistics divisions.", "image": "/uploads/news/q3-results.jpg", "published_at": "2024-10-21T09:00:00Z"},
		{"title": "New headquarters opening", "description": "The group moves into its new headquarters next spring.", "image": "/uploads/news/hq.jpg", "published_at": "2024-09-02T08:30:00Z"},
		{"title": "Community programme renewed", "description": nil, "image": nil, "published_at": "2024-07-15"},
	}
}

func leaderSeeds() []Record {
	return []Record{
		{"name": "Amina Rahman", "position": "Chief Executive Officer", "level": map[string]any{"name": "Board"}, "bio": "Leads the group strategy and chairs the executive committee.", "photo": "/uploads/leaders/rahman.jpg"},
		{"name": "Jon Ekberg", "position": "Chief Financial Officer", "level": map[string]any{"name": "Executive"}, "bio": nil, "photo": nil},
	}
}

func sliderSeeds() []Record {
	return []Record{
		{"heading": "Building what lasts", "caption": "Infrastructure for the next generation.", "image": "/uploads/sliders/hero-1.jpg", "link": "https://example.com/about"},
		{"heading": "Our 2024 report", "caption": nil, "image": "https://cdn.example.com/sliders/report.jpg", "link": nil},
	}
}

func reportSeeds() []Record {
	return []Record{
		{"title": "Sustainability Report 2023", "category": map[string]any{"name": "Annual"}, "document": "https://example.com/reports/2023.pdf", "report_date": "2024-03-31"},
		{"title": "Emissions Disclosure H1", "category": map[string]any{"name": "Climate"}, "document": nil, "report_date": "2024-08-15"},
	}
}

func contactSeeds() []Record {
	return []Record{
		{"office": "Head Office", "email": "info@example.com", "phone": "+1 555 0100", "address": "1 Harbour Street, Suite 400", "map_url": "https://maps.example.com/?q=head-office"},
		{"office": "Press Office", "email": "press@example.com", "phone": nil, "address": nil, "map_url": nil},
	}
}
