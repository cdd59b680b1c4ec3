package main

import (
	"context"
	"fmt"
	"log"

	"taxibooking/internal/config"
	"taxibooking/internal/database"
	"taxibooking/internal/domain"
	"taxibooking/internal/modules/auth"
	"taxibooking/internal/repository"
)

type seedRoute struct {
	source, destination string
	departure, arrival  string
	duration            string
	distanceKm          int
	price               int64
	offers              string
	discount            int
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal("migrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	for _, table := range []string{"reviews", "bookings", "routes", "taxis", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("cleanup %s: %v", table, err)
		}
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	taxis := repository.NewTaxiRepository(db)
	routes := repository.NewRouteRepository(db)

	// ================== USERS ==================
	log.Println("Creating users...")
	mustUser := func(name, email, phone, password string, role domain.UserRole) {
		hash, err := auth.HashPassword(password)
		if err != nil {
			log.Fatal(err)
		}
		u := &domain.User{Name: name, Email: email, Phone: phone, PasswordHash: hash, Role: role}
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("create user %s: %v", email, err)
		}
		log.Printf("%s created: %s / %s", role, email, password)
	}
	mustUser("Administrator", "admin@taxibooking.in", "+91 98000 00001", "admin123", domain.RoleAdmin)
	mustUser("Rahul Driver", "driver@taxibooking.in", "+91 98000 00002", "driver123", domain.RoleDriver)
	for i, email := range []string{"priya@example.in", "arjun@example.in", "meera@example.in"} {
		mustUser(fmt.Sprintf("Passenger %d", i+1), email, fmt.Sprintf("+91 98100 000%02d", i+10), "user1234", domain.RoleUser)
	}

	// ================== TAXIS ==================
	log.Println("Creating taxis...")
	fleet := []domain.Taxi{
		{Name: "City Hopper", Model: "Suzuki Wagon R", VehicleNumber: "MH01AB1001", Type: domain.TaxiMini, Capacity: 4, PricePerKm: 1100, Rating: 4.2},
		{Name: "Comfort Ride", Model: "Honda City", VehicleNumber: "MH01AB1002", Type: domain.TaxiSedan, Capacity: 4, PricePerKm: 1400, Rating: 4.6},
		{Name: "Family Cruiser", Model: "Toyota Innova Crysta", VehicleNumber: "MH01AB1003", Type: domain.TaxiSUV, Capacity: 7, PricePerKm: 1800, Rating: 4.8},
		{Name: "Executive", Model: "Mercedes E-Class", VehicleNumber: "MH01AB1004", Type: domain.TaxiLuxury, Capacity: 4, PricePerKm: 4500, Rating: 4.9},
		{Name: "Night Owl", Model: "Hyundai Aura", VehicleNumber: "MH01AB1005", Type: domain.TaxiSedan, Capacity: 4, PricePerKm: 1300},
	}
	created := make([]*domain.Taxi, 0, len(fleet))
	for i := range fleet {
		t := fleet[i]
		t.DriverName = fmt.Sprintf("Driver %d", i+1)
		t.DriverPhone = fmt.Sprintf("+91 98200 000%02d", i+1)
		t.Operator = "Western Cabs"
		t.IsActive = true
		// the last one is awaiting approval and stays out of search
		t.IsApproved = i < len(fleet)-1
		if err := taxis.Create(ctx, &t); err != nil {
			log.Fatalf("create taxi %s: %v", t.VehicleNumber, err)
		}
		created = append(created, &t)
	}

	// ================== ROUTES ==================
	log.Println("Creating routes...")
	lines := []seedRoute{
		{"Mumbai", "Pune", "06:00", "09:30", "3h 30m", 150, 320000, "Early bird", 10},
		{"Pune", "Mumbai", "17:00", "20:30", "3h 30m", 150, 320000, "", 0},
		{"Mumbai", "Nashik", "07:30", "11:30", "4h", 170, 380000, "", 0},
		{"Mumbai Airport", "Lonavala", "10:00", "12:30", "2h 30m", 85, 240000, "", 5},
		{"Pune", "Goa", "05:00", "15:00", "10h", 450, 950000, "Weekend special", 15},
	}
	count := 0
	for i, taxi := range created {
		for j := 0; j < 2; j++ {
			l := lines[(i+j)%len(lines)]
			rt := &domain.Route{
				TaxiID:        taxi.ID,
				Source:        l.source,
				Destination:   l.destination,
				DepartureTime: l.departure,
				ArrivalTime:   l.arrival,
				Duration:      l.duration,
				DistanceKm:    l.distanceKm,
				Price:         l.price,
				Offers:        l.offers,
				Discount:      l.discount,
				IsActive:      true,
			}
			if err := routes.Create(ctx, rt); err != nil {
				log.Fatalf("create route %s-%s: %v", l.source, l.destination, err)
			}
			count++
		}
	}

	log.Printf("Seed completed: %d taxis, %d routes", len(created), count)
}
