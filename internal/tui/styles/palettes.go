package styles

// DefaultTheme is the baseline dark palette.
var DefaultTheme = Theme{
	Name:        "default",
	BorderStyle: "rounded",
	Base: BaseColors{
		Background: "234",
		Foreground: "252",
		Muted:      "245",
		Accent:     "75",
		Border:     "240",
	},
	Status: StatusColors{
		Error:   "203",
		Warning: "214",
		OK:      "41",
	},
	Chrome: ChromeColors{
		Header:       "111",
		Footer:       "110",
		Breadcrumb:   "109",
		SelectedItem: "75",
		Checked:      "41",
	},
	Borders: BorderColors{
		ActivePane:   "75",
		InactivePane: "240",
	},
}

// HighContrastTheme favors legibility on low-quality terminals.
var HighContrastTheme = Theme{
	Name:        "high-contrast",
	BorderStyle: "sharp",
	Base: BaseColors{
		Background: "16",
		Foreground: "231",
		Muted:      "250",
		Accent:     "51",
		Border:     "231",
	},
	Status: StatusColors{
		Error:   "196",
		Warning: "226",
		OK:      "46",
	},
	Chrome: ChromeColors{
		Header:       "117",
		Footer:       "159",
		Breadcrumb:   "195",
		SelectedItem: "51",
		Checked:      "46",
	},
	Borders: BorderColors{
		ActivePane:   "231",
		InactivePane: "250",
	},
}
