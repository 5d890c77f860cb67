package catalog

// DefaultDocument returns the built-in curated catalog, used when no
// document path is configured.
func DefaultDocument() Document {
	return Document{
		CategoryList: []string{"Adventure", "Culture", "Beach", "City"},
		Destinations: []Destination{
			{
				ID:          1,
				Name:        "Swiss Alps",
				Country:     "Switzerland",
				Category:    "Adventure",
				Image:       "/swiss-alps-snowy-peaks.png",
				Description: "Breathtaking mountain peaks and pristine alpine lakes.",
				Rating:      4.9,
				Price:       "$299",
			},
			{
				ID:          2,
				Name:        "Prague",
				Country:     "Czech Republic",
				Category:    "Culture",
				Image:       "/prague-castle-old-town.png",
				Description: "Medieval architecture and rich cultural heritage.",
				Rating:      4.8,
				Price:       "$189",
			},
			{
				ID:          3,
				Name:        "Kyoto",
				Country:     "Japan",
				Category:    "Culture",
				Image:       "/kyoto-temples-gardens.png",
				Description: "Ancient temples and traditional Japanese gardens.",
				Rating:      4.9,
				Price:       "$349",
			},
			{
				ID:          4,
				Name:        "Santorini",
				Country:     "Greece",
				Category:    "Beach",
				Image:       "/santorini-white-buildings-blue-sea.png",
				Description: "Stunning sunsets and iconic white-washed buildings.",
				Rating:      4.7,
				Price:       "$279",
			},
			{
				ID:          5,
				Name:        "New York City",
				Country:     "USA",
				Category:    "City",
				Image:       "/new-york-skyline.png",
				Description: "The city that never sleeps with endless attractions.",
				Rating:      4.6,
				Price:       "$399",
			},
			{
				ID:          6,
				Name:        "Bali",
				Country:     "Indonesia",
				Category:    "Beach",
				Image:       "/bali-beach-rice.png",
				Description: "Tropical paradise with beautiful beaches and culture.",
				Rating:      4.8,
				Price:       "$229",
			},
		},
	}
}
