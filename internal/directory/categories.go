package directory

// CategorySection groups browsing categories under a titled heading.
type CategorySection struct {
	Title      string   `json:"title"`
	Subtitle   string   `json:"subtitle,omitempty"`
	Categories []string `json:"categories"`
}

// CategoryCatalog returns the browsing buckets offered to the view layer.
// Category names are matched exactly against Record.Category, so the strings
// here are canonical.
func CategoryCatalog() []CategorySection {
	return []CategorySection{
		{
			Title:    "Core Trades",
			Subtitle: "For major repairs & builds",
			Categories: []string{
				"Carpentry", "Drywall & Plastering", "Electrical", "Flooring",
				"HVAC (Heating & Cooling)", "Locksmith", "Masonry", "Painting",
				"Roofing", "Tiling", "Welding",
			},
		},
		{
			Title:    "Home Maintenance",
			Subtitle: "Keep your home running smoothly",
			Categories: []string{
				"Appliance Repair", "Cleaning", "Gutter Cleaning",
				"Home Inspection", "Pest Control", "Window Cleaning",
			},
		},
		{
			Title:    "Outdoor & Landscaping",
			Subtitle: "Gardens, lawns and outdoor structures",
			Categories: []string{
				"Deck & Patio", "Fencing", "Gardening", "Irrigation",
				"Landscaping", "Lawn Care", "Tree Trimming",
			},
		},
		{
			Title:    "Interior & Design",
			Subtitle: "Small improvements and styling",
			Categories: []string{
				"Curtains & Blinds", "Furniture Assembly", "Interior Design",
				"Lighting Installation", "Smart Home Setup", "Wallpaper Installation",
			},
		},
		{
			Title:    "Construction & Renovation",
			Subtitle: "Larger renovation and building jobs",
			Categories: []string{
				"Concrete Work", "Demolition", "General Contracting",
				"Renovation", "Steel Fabrication", "Waterproofing",
			},
		},
		{
			Title:    "Vehicle & Mobility",
			Subtitle: "Auto, bikes and tires",
			Categories: []string{
				"Auto Repair", "Battery Replacement", "Car Wash",
				"Motorbike Repair", "Tire Services",
			},
		},
		{
			Title:    "Tech & Electronics",
			Subtitle: "Installations, repairs and networking",
			Categories: []string{
				"CCTV Installation", "Computer Repair", "Mobile Phone Repair",
				"Networking", "Satellite & TV Setup", "Solar Installation",
			},
		},
		{
			Title:    "Safety & Security",
			Subtitle: "Protect your home and assets",
			Categories: []string{
				"Fire Safety", "Gate Automation", "Security Systems",
			},
		},
		{
			Title:    "Special & Emergency Services",
			Subtitle: "One-off, special and urgent services",
			Categories: []string{
				"Glass & Mirror Work", "Moving Services", "Pool Maintenance",
				"Signage & Printing", "Waste Disposal", "Water Tank Cleaning",
				"24/7 Handyman", "Emergency Electrical", "Emergency Plumbing",
				"Flood Cleanup", "Storm Damage Repair",
			},
		},
	}
}
