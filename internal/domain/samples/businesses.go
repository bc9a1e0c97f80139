// Package samples holds the built-in directory content used to seed an empty
// store and to stand in for the store when it is empty or unreachable.
package samples

import (
	"fmt"

	"github.com/zatekoja/bizdirectory/internal/domain/entities"
)

func weekdays(weekday, friday, saturday, sunday string) entities.Hours {
	return entities.Hours{
		Monday:    weekday,
		Tuesday:   weekday,
		Wednesday: weekday,
		Thursday:  weekday,
		Friday:    friday,
		Saturday:  saturday,
		Sunday:    sunday,
	}
}

// Businesses returns the sample businesses without ids, in seeding order.
func Businesses() []*entities.Business {
	return []*entities.Business{
		{
			Name:        "Coastal Cafe",
			Category:    "Restaurant",
			Rating:      4.5,
			Logo:        "https://images.unsplash.com/photo-1554118811-1e0d58224f24?w=800&q=80",
			Description: "A cozy cafe with ocean views and fresh local ingredients. Our menu features seasonal produce from local farms and sustainably caught seafood. We pride ourselves on our artisanal coffee program and house-made pastries. Perfect for breakfast and lunch with vegan options available.",
			Address:     "123 Ocean Drive",
			City:        "Seaside",
			State:       "CA",
			Zip:         "90210",
			Phone:       "(555) 123-4567",
			Email:       "info@coastalcafe.com",
			Website:     "https://coastalcafe.example.com",
			Hours:       weekdays("7:00 AM - 3:00 PM", "7:00 AM - 4:00 PM", "8:00 AM - 4:00 PM", "8:00 AM - 2:00 PM"),
			Location:    entities.Location{Lat: 34.0522, Lng: -118.2437},
			Reviews:     []string{},
		},
		{
			Name:        "Tech Solutions",
			Category:    "Technology",
			Rating:      4.8,
			Logo:        "https://images.unsplash.com/photo-1581091226825-a6a2a5aee158?w=800&q=80",
			Description: "Professional IT services for small businesses. We offer computer repair, network setup, and cybersecurity solutions. Our team of certified technicians can handle everything from virus removal to complete network infrastructure design.",
			Address:     "456 Innovation Way",
			City:        "Techville",
			State:       "CA",
			Zip:         "90211",
			Phone:       "(555) 987-6543",
			Email:       "support@techsolutions.com",
			Website:     "https://techsolutions.example.com",
			Hours:       weekdays("9:00 AM - 6:00 PM", "9:00 AM - 5:00 PM", "10:00 AM - 2:00 PM", entities.ClosedHours),
			Location:    entities.Location{Lat: 34.0523, Lng: -118.2435},
			Reviews:     []string{},
		},
		{
			Name:        "Green Thumb Nursery",
			Category:    "Garden & Landscape",
			Rating:      4.2,
			Logo:        "https://images.unsplash.com/photo-1585320806297-9794b3e4eeae?w=800&q=80",
			Description: "Your one-stop shop for plants, gardening supplies, and expert advice. We specialize in native and drought-resistant plants. Our knowledgeable staff can help with garden planning, plant selection, and maintenance tips.",
			Address:     "789 Garden Lane",
			City:        "Greenfield",
			State:       "CA",
			Zip:         "90213",
			Phone:       "(555) 456-7890",
			Email:       "hello@greenthumb.com",
			Website:     "https://greenthumb.example.com",
			Hours:       weekdays("8:00 AM - 5:00 PM", "8:00 AM - 5:00 PM", "8:00 AM - 6:00 PM", "10:00 AM - 4:00 PM"),
			Location:    entities.Location{Lat: 34.0525, Lng: -118.243},
			Reviews:     []string{},
		},
		{
			Name:        "Fitness First",
			Category:    "Health & Fitness",
			Rating:      4.7,
			Logo:        "https://images.unsplash.com/photo-1534438327276-14e5300c3a48?w=800&q=80",
			Description: "Modern gym with state-of-the-art equipment, personal training, and group classes. We offer yoga, spin, and HIIT classes daily. Our certified trainers can help you achieve your fitness goals with personalized workout plans and nutrition advice.",
			Address:     "101 Fitness Blvd",
			City:        "Healthville",
			State:       "CA",
			Zip:         "90215",
			Phone:       "(555) 789-0123",
			Email:       "info@fitnessfirst.com",
			Website:     "https://fitnessfirst.example.com",
			Hours:       weekdays("5:00 AM - 10:00 PM", "5:00 AM - 10:00 PM", "7:00 AM - 8:00 PM", "7:00 AM - 6:00 PM"),
			Location:    entities.Location{Lat: 34.052, Lng: -118.244},
			Reviews:     []string{},
		},
		{
			Name:        "Bookworm Haven",
			Category:    "Retail",
			Rating:      4.9,
			Logo:        "https://images.unsplash.com/photo-1507842217343-583bb7270b66?w=800&q=80",
			Description: "Independent bookstore with a vast selection of new and used books. We host regular author events, book clubs, and children's story times. Our knowledgeable staff provides personalized recommendations for readers of all ages.",
			Address:     "202 Reader's Lane",
			City:        "Bookville",
			State:       "CA",
			Zip:         "90220",
			Phone:       "(555) 321-7654",
			Email:       "books@bookwormhaven.com",
			Website:     "https://bookwormhaven.example.com",
			Hours:       weekdays("10:00 AM - 8:00 PM", "10:00 AM - 9:00 PM", "9:00 AM - 9:00 PM", "11:00 AM - 6:00 PM"),
			Location:    entities.Location{Lat: 34.0518, Lng: -118.2445},
			Reviews:     []string{},
		},
		{
			Name:        "Paws & Claws Pet Care",
			Category:    "Pet Services",
			Rating:      4.6,
			Logo:        "https://images.unsplash.com/photo-1548199973-03cce0bbc87b?w=800&q=80",
			Description: "Full-service pet care center offering grooming, boarding, daycare, and veterinary services. Our certified groomers and veterinary staff provide loving care for your furry family members. We also offer training classes and a retail section with premium pet supplies.",
			Address:     "303 Pet Paradise Road",
			City:        "Petville",
			State:       "CA",
			Zip:         "90225",
			Phone:       "(555) 234-5678",
			Email:       "care@pawsandclaws.com",
			Website:     "https://pawsandclaws.example.com",
			Hours:       weekdays("8:00 AM - 7:00 PM", "8:00 AM - 7:00 PM", "9:00 AM - 5:00 PM", "10:00 AM - 4:00 PM"),
			Location:    entities.Location{Lat: 34.0515, Lng: -118.245},
			Reviews:     []string{},
		},
	}
}

// FallbackBusinesses returns the sample businesses with ids sample-0 through sample-5.
func FallbackBusinesses() []*entities.Business {
	businesses := Businesses()
	for i, b := range businesses {
		b.ID = fmt.Sprintf("sample-%d", i)
	}
	return businesses
}
