package main

import (
	"encoding/json"
	"log"

	"github.com/joho/godotenv"
	"github.com/keshercrm/kesher-crm/data"
	"github.com/keshercrm/kesher-crm/internal/config"
	"github.com/keshercrm/kesher-crm/internal/database"
	"github.com/keshercrm/kesher-crm/internal/fields"
	"github.com/keshercrm/kesher-crm/internal/logging"
	"github.com/keshercrm/kesher-crm/internal/models"
	"github.com/keshercrm/kesher-crm/internal/services"
	"github.com/keshercrm/kesher-crm/internal/types"
)

type seedField struct {
	Name        string                        `json:"name"`
	Label       string                        `json:"label"`
	Type        string                        `json:"type"`
	Options     types.FlexList[fields.Option] `json:"options"`
	Required    bool                          `json:"required"`
	Placeholder string                        `json:"placeholder"`
	Section     string                        `json:"section"`
	Order       int                           `json:"order"`
}

type seedEntity struct {
	Name    string                   `json:"name"`
	Slug    string                   `json:"slug"`
	Icon    string                   `json:"icon"`
	Order   int                      `json:"order"`
	Fields  []seedField              `json:"fields"`
	Records []map[string]interface{} `json:"records"`
}

type seedUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type seedProduct struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type seedFile struct {
	Entities []seedEntity  `json:"entities"`
	Users    []seedUser    `json:"users"`
	Products []seedProduct `json:"products"`
}

// Seeds the database with the embedded starter data. Safe to run repeatedly;
// entities and users that already exist are skipped.
func main() {
	_ = godotenv.Load()
	logging.Init()
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var seed seedFile
	if err := json.Unmarshal(data.SeedJSON, &seed); err != nil {
		log.Fatalf("Failed to parse seed data: %v", err)
	}

	for _, u := range seed.Users {
		var count int64
		if err := db.Model(&models.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
			log.Fatalf("Failed to check user %s: %v", u.Email, err)
		}
		if count > 0 {
			logging.SLog.Infof("User %s already exists, skipping", u.Email)
			continue
		}

		user, err := services.Register(db, services.RegisterInput{
			Name:     u.Name,
			Email:    u.Email,
			Password: u.Password,
		})
		if err != nil {
			log.Fatalf("Failed to create user %s: %v", u.Email, err)
		}
		if u.Role != "" && u.Role != user.Role {
			if err := db.Model(user).Update("role", u.Role).Error; err != nil {
				log.Fatalf("Failed to set role for %s: %v", u.Email, err)
			}
		}
		logging.SLog.Infof("Created user %s", u.Email)
	}

	for _, e := range seed.Entities {
		var count int64
		if err := db.Model(&models.Entity{}).Where("slug = ?", e.Slug).Count(&count).Error; err != nil {
			log.Fatalf("Failed to check entity %s: %v", e.Slug, err)
		}
		if count > 0 {
			logging.SLog.Infof("Entity %s already exists, skipping", e.Slug)
			continue
		}

		entity, err := services.CreateEntity(db, services.EntityInput{
			Name:  e.Name,
			Slug:  e.Slug,
			Icon:  e.Icon,
			Order: e.Order,
		})
		if err != nil {
			log.Fatalf("Failed to create entity %s: %v", e.Slug, err)
		}

		for _, f := range e.Fields {
			_, err := services.CreateField(db, entity.ID, services.FieldInput{
				Name:        f.Name,
				Label:       f.Label,
				Type:        f.Type,
				Options:     f.Options,
				Required:    f.Required,
				Placeholder: f.Placeholder,
				Section:     f.Section,
				Order:       f.Order,
			})
			if err != nil {
				log.Fatalf("Failed to create field %s.%s: %v", e.Slug, f.Name, err)
			}
		}

		for _, r := range e.Records {
			if _, err := services.CreateRecord(db, e.Slug, services.RecordInput{Data: r}, nil); err != nil {
				log.Fatalf("Failed to create record for %s: %v", e.Slug, err)
			}
		}

		logging.SLog.Infof("Created entity %s with %d fields, %d records",
			e.Slug, len(e.Fields), len(e.Records))
	}

	for _, p := range seed.Products {
		var count int64
		if err := db.Model(&models.Product{}).Where("name = ?", p.Name).Count(&count).Error; err != nil {
			log.Fatalf("Failed to check product %s: %v", p.Name, err)
		}
		if count > 0 {
			continue
		}
		product := models.Product{Name: p.Name, Description: p.Description, Price: p.Price}
		if err := db.Create(&product).Error; err != nil {
			log.Fatalf("Failed to create product %s: %v", p.Name, err)
		}
	}

	logging.SLog.Info("Seed complete")
}
