// Package main 开发环境示例数据填充
//
// 用法: go run ./cmd/seed
// 向配置指定的 MongoDB 写入示例献血者、血库、血液请求和用户。
// 只用于开发和演示环境，不做清库操作，重复执行会因 email 唯一索引跳过已有记录。
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"time"

	"raktkosh/internal/apiserver/auth"
	"raktkosh/internal/config"
	"raktkosh/internal/shared/model"
	"raktkosh/internal/shared/storage"
	"raktkosh/internal/shared/storage/mongostore"
)

func main() {
	cfg := config.Load()
	log.Printf("Seeding database... [env=%s]", cfg.Env)

	store, err := mongostore.NewStore(cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seedDonors(ctx, store)
	seedBloodBanks(ctx, store)
	seedRequests(ctx, store)
	seedUsers(ctx, store)

	log.Println("Database seeded successfully!")
}

func seedDonors(ctx context.Context, store storage.DonorStore) {
	now := time.Now()
	donors := []*model.Donor{
		{
			ID:          generateID("don"),
			FirstName:   "Rajesh",
			LastName:    "Kumar",
			Email:       "rajesh.kumar@email.com",
			Phone:       "+91-9876543210",
			DateOfBirth: date(1990, 5, 15),
			Gender:      model.GenderMale,
			BloodGroup:  model.BloodGroupOPos,
			Weight:      70,
			Address:     "123 Main Street, Connaught Place",
			City:        "New Delhi",
			State:       "Delhi",
			Pincode:     "110001",
			EmergencyContact: model.EmergencyContact{
				Name:  "Priya Kumar",
				Phone: "+91-9876543211",
			},
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          generateID("don"),
			FirstName:   "Priya",
			LastName:    "Sharma",
			Email:       "priya.sharma@email.com",
			Phone:       "+91-9876543212",
			DateOfBirth: date(1992, 8, 22),
			Gender:      model.GenderFemale,
			BloodGroup:  model.BloodGroupAPos,
			Weight:      55,
			Address:     "456 Park Avenue, Bandra",
			City:        "Mumbai",
			State:       "Maharashtra",
			Pincode:     "400050",
			EmergencyContact: model.EmergencyContact{
				Name:  "Amit Sharma",
				Phone: "+91-9876543213",
			},
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          generateID("don"),
			FirstName:   "Amit",
			LastName:    "Patel",
			Email:       "amit.patel@email.com",
			Phone:       "+91-9876543214",
			DateOfBirth: date(1988, 12, 10),
			Gender:      model.GenderMale,
			BloodGroup:  model.BloodGroupBPos,
			Weight:      75,
			Address:     "789 Tech Park, Whitefield",
			City:        "Bangalore",
			State:       "Karnataka",
			Pincode:     "560066",
			EmergencyContact: model.EmergencyContact{
				Name:  "Neha Patel",
				Phone: "+91-9876543215",
			},
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	added := 0
	for _, d := range donors {
		if err := store.CreateDonor(ctx, d); err != nil {
			if err == storage.ErrDuplicate {
				continue
			}
			log.Fatalf("Failed to seed donor %s: %v", d.Email, err)
		}
		added++
	}
	log.Printf("Added %d donors", added)
}

func seedBloodBanks(ctx context.Context, store storage.BloodBankStore) {
	now := time.Now()
	banks := []*model.BloodBank{
		{
			ID:      generateID("bank"),
			Name:    "All India Institute of Medical Sciences Blood Bank",
			Address: "Ansari Nagar, New Delhi - 110029",
			City:    "New Delhi",
			State:   "Delhi",
			Pincode: "110029",
			Phone:   "+91-11-26588500",
			Email:   "bloodbank@aiims.edu",
			License: "AIIMS-BB-001",
			BloodInventory: map[model.BloodGroup]int{
				model.BloodGroupAPos: 25, model.BloodGroupANeg: 8,
				model.BloodGroupBPos: 30, model.BloodGroupBNeg: 5,
				model.BloodGroupABPos: 12, model.BloodGroupABNeg: 3,
				model.BloodGroupOPos: 40, model.BloodGroupONeg: 10,
			},
			OperatingHours: model.OperatingHours{Open: "24/7", Close: "24/7"},
			Facilities:     []string{"Emergency Services", "Component Separation", "Blood Testing"},
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			ID:      generateID("bank"),
			Name:    "Tata Memorial Hospital Blood Bank",
			Address: "Dr. E Borges Road, Parel, Mumbai - 400012",
			City:    "Mumbai",
			State:   "Maharashtra",
			Pincode: "400012",
			Phone:   "+91-22-24177000",
			Email:   "bloodbank@tmc.gov.in",
			License: "TMH-BB-002",
			BloodInventory: map[model.BloodGroup]int{
				model.BloodGroupAPos: 20, model.BloodGroupANeg: 6,
				model.BloodGroupBPos: 25, model.BloodGroupBNeg: 4,
				model.BloodGroupABPos: 10, model.BloodGroupABNeg: 2,
				model.BloodGroupOPos: 35, model.BloodGroupONeg: 8,
			},
			OperatingHours: model.OperatingHours{Open: "08:00", Close: "20:00"},
			Facilities:     []string{"Cancer Patient Support", "Platelet Donation", "Blood Testing"},
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}

	for _, b := range banks {
		if err := store.CreateBloodBank(ctx, b); err != nil {
			log.Fatalf("Failed to seed blood bank %s: %v", b.Name, err)
		}
	}
	log.Printf("Added %d blood banks", len(banks))
}

func seedRequests(ctx context.Context, store storage.RequestStore) {
	now := time.Now()
	requests := []*model.BloodRequest{
		{
			ID:            generateID("req"),
			PatientName:   "Ravi Gupta",
			BloodGroup:    model.BloodGroupONeg,
			UnitsRequired: 2,
			Urgency:       model.UrgencyCritical,
			Hospital: model.HospitalContact{
				Name:    "Max Hospital",
				Address: "Saket, New Delhi",
				Phone:   "+91-11-26515050",
			},
			RequesterName:  "Dr. Sunita Gupta",
			RequesterPhone: "+91-9876543220",
			RequesterEmail: "sunita.gupta@maxhospital.com",
			RequiredBy:     now.Add(2 * time.Hour),
			Status:         model.RequestStatusPending,
			Notes:          "Emergency surgery required",
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}

	for _, r := range requests {
		if err := store.CreateRequest(ctx, r); err != nil {
			log.Fatalf("Failed to seed request for %s: %v", r.PatientName, err)
		}
	}
	log.Printf("Added %d blood requests", len(requests))
}

func seedUsers(ctx context.Context, store storage.UserStore) {
	now := time.Now()
	dob := date(1990, 1, 1)
	users := []struct {
		user     *model.User
		password string
	}{
		{
			user: &model.User{
				ID:        generateID("usr"),
				FirstName: "Admin",
				LastName:  "User",
				Email:     "admin@raktkosh.in",
				Role:      model.UserRoleAdmin,
				Phone:     "+91-9999999999",
			},
			password: "admin123",
		},
		{
			user: &model.User{
				ID:        generateID("usr"),
				FirstName: "John",
				LastName:  "Donor",
				Email:     "donor@raktkosh.in",
				Role:      model.UserRoleDonor,
				Phone:     "+91-8888888888",
				Profile: model.Profile{
					BloodGroup:  model.BloodGroupOPos,
					DateOfBirth: &dob,
					Gender:      string(model.GenderMale),
				},
			},
			password: "donor123",
		},
		{
			user: &model.User{
				ID:        generateID("usr"),
				FirstName: "Hospital",
				LastName:  "Admin",
				Email:     "hospital@raktkosh.in",
				Role:      model.UserRoleHospital,
				Phone:     "+91-7777777777",
			},
			password: "hospital123",
		},
	}

	added := 0
	for _, u := range users {
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		u.user.PasswordHash = hash
		u.user.IsVerified = true
		u.user.Preferences = model.DefaultPreferences()
		u.user.CreatedAt = now
		u.user.UpdatedAt = now

		if err := store.CreateUser(ctx, u.user); err != nil {
			if err == storage.ErrDuplicate {
				continue
			}
			log.Fatalf("Failed to seed user %s: %v", u.user.Email, err)
		}
		added++
	}
	log.Printf("Added %d users", added)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func generateID(prefix string) string {
	b := make([]byte, 6)
	rand.Read(b)
	return prefix + "-" + hex.EncodeToString(b)
}
