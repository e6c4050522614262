package resourceRepo

import "glowhub/models"

// DemoResources returns the sample salons loaded into the memory backend.
func DemoResources() []models.Resource {
	settings := models.DefaultShopSettings()
	settings.Timezone = "Asia/Karachi"

	barber := models.DefaultShopSettings()
	barber.OpeningTime = "09:00"
	barber.ClosingTime = "20:00"
	barber.SlotDurationMin = 30
	barber.BufferTimeMin = 15
	barber.Timezone = "Asia/Karachi"

	return []models.Resource{
		{
			ID:       "salon-glamour",
			Name:     "Glamour Studio",
			Kind:     models.ResourceKindSalon,
			Address:  "MM Alam Road, Lahore",
			Currency: "PKR",
			Services: []models.Service{
				{ID: "svc-haircut", Name: "Haircut & Style", Price: 1500, DurationMin: 60},
				{ID: "svc-facial", Name: "Hydra Facial", Price: 4500, DurationMin: 60},
				{ID: "svc-manicure", Name: "Manicure", Price: 800, DurationMin: 45},
			},
			Staff: []models.Staff{
				{ID: "staff-ayesha", Name: "Ayesha"},
				{ID: "staff-sana", Name: "Sana"},
			},
			Settings: &settings,
		},
		{
			ID:       "barber-classic",
			Name:     "Classic Cuts",
			Kind:     models.ResourceKindBarber,
			Address:  "F-7 Markaz, Islamabad",
			Currency: "PKR",
			Services: []models.Service{
				{ID: "svc-fade", Name: "Skin Fade", Price: 900, DurationMin: 30},
				{ID: "svc-beard", Name: "Beard Trim", Price: 500, DurationMin: 30},
			},
			Staff: []models.Staff{
				{ID: "staff-bilal", Name: "Bilal"},
			},
			Settings: &barber,
		},
	}
}
