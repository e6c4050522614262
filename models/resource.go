package models

// Resource kinds.
const (
	ResourceKindSalon  = "salon"
	ResourceKindBarber = "barber"
)

// Resource is a bookable salon or barber shop.
type Resource struct {
	ID       string        `bson:"id" json:"id"`
	Name     string        `bson:"name" json:"name"`
	Kind     string        `bson:"kind" json:"kind"`
	Address  string        `bson:"address,omitempty" json:"address,omitempty"`
	Currency string        `bson:"currency,omitempty" json:"currency,omitempty"`
	Services []Service     `bson:"services" json:"services"`
	Staff    []Staff       `bson:"staff,omitempty" json:"staff,omitempty"`
	Settings *ShopSettings `bson:"settings,omitempty" json:"settings,omitempty"`
}

// Service is a priced offering of a resource. Price is in whole currency units.
type Service struct {
	ID          string `bson:"id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Price       int64  `bson:"price" json:"price"`
	DurationMin int    `bson:"durationMin,omitempty" json:"durationMin,omitempty"`
}

// Staff is a stylist or barber working at a resource.
type Staff struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// FindService returns the service with the given id.
func (r *Resource) FindService(id string) (Service, bool) {
	for _, s := range r.Services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

// FindStaff returns the staff member with the given id.
func (r *Resource) FindStaff(id string) (Staff, bool) {
	for _, s := range r.Staff {
		if s.ID == id {
			return s, true
		}
	}
	return Staff{}, false
}
