package models

type Frequency struct {
	Key   string
	Label string
}

func DefaultFrequencies() []Frequency {
	return []Frequency{
		{Key: "once_daily", Label: "Once daily"},
		{Key: "twice_daily", Label: "Twice daily"},
		{Key: "three_times_daily", Label: "Three times daily"},
		{Key: "four_times_daily", Label: "Four times daily"},
		{Key: "every_6_hours", Label: "Every 6 hours"},
		{Key: "every_8_hours", Label: "Every 8 hours"},
		{Key: "every_12_hours", Label: "Every 12 hours"},
		{Key: "as_needed", Label: "As needed"},
	}
}
