package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MSamoilovic/FormForge-API/config"
	"github.com/MSamoilovic/FormForge-API/internal/core/auth"
	"github.com/MSamoilovic/FormForge-API/internal/core/form"
	"github.com/MSamoilovic/FormForge-API/internal/core/schema"
	"github.com/MSamoilovic/FormForge-API/internal/core/submission"
	"github.com/MSamoilovic/FormForge-API/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	if !cfg.Seed.RunSeed {
		log.Println("RUN_SEED is not set, nothing to do")
		return
	}

	db, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if cfg.Seed.ClearData {
		if err := clearData(ctx, db); err != nil {
			log.Fatalf("Failed to clear existing data: %v", err)
		}
		log.Println("Existing forms and submissions cleared")
	}

	admin, err := seedAdmin(ctx, auth.NewRepository(db))
	if err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	formRepo := form.NewRepository(db)
	submissionRepo := submission.NewRepository(db)

	forms := demoForms(admin.ID)
	for _, f := range forms {
		if err := f.Validate(); err != nil {
			log.Fatalf("Seed form %q is invalid: %v", f.Name, err)
		}
		if err := formRepo.Create(ctx, f); err != nil {
			log.Fatalf("Failed to create seed form %q: %v", f.Name, err)
		}
		log.Printf("Created form %q (%s)", f.Name, f.ID)
	}

	contact := forms[0]
	for _, data := range demoSubmissions() {
		sub := &submission.Submission{ID: uuid.New(), FormID: contact.ID, Data: data}
		if err := submissionRepo.Create(ctx, sub); err != nil {
			log.Fatalf("Failed to create seed submission: %v", err)
		}
	}

	fmt.Println("Seed complete")
}

func clearData(ctx context.Context, db *postgres.Client) error {
	for _, table := range []string{"submissions", "forms"} {
		if _, err := db.DB.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// seedAdmin creates the bootstrap admin account, or reuses it when the email
// is already taken.
func seedAdmin(ctx context.Context, repo *auth.Repository) (*auth.User, error) {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil, fmt.Errorf("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD environment variables are required")
	}

	existing, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Printf("Admin user %q already exists", email)
		return existing, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &auth.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     "admin",
		PasswordHash: string(hash),
		FullName:     "FormForge Admin",
		Role:         auth.RoleSuperAdmin,
		IsActive:     true,
		IsVerified:   true,
	}

	if err := repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("Created admin user %q", email)
	return user, nil
}

// demoForms returns deterministic development fixtures. IDs are fixed so
// reseeding stays idempotent when CLEAR_DATA is set.
func demoForms(ownerID uuid.UUID) []*schema.Form {
	required := []schema.Validation{{Type: schema.ValidationRequired, Value: true}}

	contact := &schema.Form{
		ID:          uuid.MustParse("7b0a2f3c-1111-4a61-9a08-6f4f2d6b0001"),
		Name:        "Kontakt Forma",
		Description: "Jednostavna kontakt forma za korisnike",
		OwnerID:     &ownerID,
		Fields: []schema.FormField{
			{
				ID:          "ime",
				Type:        schema.FieldTypeText,
				Label:       "Ime i Prezime",
				Placeholder: "Unesite vaše ime i prezime",
				Validations: required,
			},
			{
				ID:          "email",
				Type:        schema.FieldTypeEmail,
				Label:       "Email Adresa",
				Placeholder: "vas@email.com",
				Validations: required,
			},
			{
				ID:          "poruka",
				Type:        schema.FieldTypeTextarea,
				Label:       "Poruka",
				Placeholder: "Vaša poruka...",
				Validations: required,
			},
		},
		Theme: &schema.Theme{
			PrimaryColor:    "#3B82F6",
			BackgroundColor: "#F3F4F6",
			FontFamily:      "Inter, sans-serif",
		},
	}

	survey := &schema.Form{
		ID:          uuid.MustParse("7b0a2f3c-1111-4a61-9a08-6f4f2d6b0002"),
		Name:        "Anketa o Zadovoljstvu",
		Description: "Anketa za prikupljanje feedback-a od korisnika",
		OwnerID:     &ownerID,
		Fields: []schema.FormField{
			{
				ID:    "ocena",
				Type:  schema.FieldTypeNumber,
				Label: "Ocena (1-5)",
				Validations: []schema.Validation{
					{Type: schema.ValidationRequired, Value: true},
					{Type: schema.ValidationMin, Value: float64(1)},
					{Type: schema.ValidationMax, Value: float64(5)},
				},
			},
			{
				ID:          "komentar",
				Type:        schema.FieldTypeTextarea,
				Label:       "Komentar",
				Placeholder: "Podelite vaše mišljenje sa nama...",
			},
			{
				ID:    "preporuka",
				Type:  schema.FieldTypeRadio,
				Label: "Da li biste nas preporučili drugima?",
				Options: []schema.FieldOption{
					{Value: "da", Label: "Da"},
					{Value: "ne", Label: "Ne"},
					{Value: "mozda", Label: "Možda"},
				},
				Validations: required,
			},
		},
		Theme: &schema.Theme{
			PrimaryColor:    "#F59E0B",
			BackgroundColor: "#FEF3C7",
			FontFamily:      "Poppins, sans-serif",
		},
	}

	rules := &schema.Form{
		ID:          uuid.MustParse("7b0a2f3c-1111-4a61-9a08-6f4f2d6b0003"),
		Name:        "Forma sa Pravilima",
		Description: "Demo forma sa uslovnom logikom za fizička i pravna lica",
		OwnerID:     &ownerID,
		Fields: []schema.FormField{
			{
				ID:    "tip_lica",
				Type:  schema.FieldTypeRadio,
				Label: "Tip Korisnika",
				Options: []schema.FieldOption{
					{Value: "fizicko", Label: "Fizičko lice"},
					{Value: "pravno", Label: "Pravno lice"},
				},
				Validations: required,
			},
			{ID: "ime_prezime", Type: schema.FieldTypeText, Label: "Ime i Prezime", Validations: required},
			{ID: "jmbg", Type: schema.FieldTypeText, Label: "JMBG"},
			{ID: "naziv_firme", Type: schema.FieldTypeText, Label: "Naziv Firme"},
			{ID: "pib", Type: schema.FieldTypeText, Label: "PIB"},
		},
		Rules: []schema.FormRule{
			{
				ID:          "show_jmbg",
				Description: "JMBG samo za fizička lica",
				Conditions: []schema.RuleConditionNode{
					{Condition: &schema.RuleCondition{FieldID: "tip_lica", Operator: schema.OperatorEquals, Value: "fizicko"}},
				},
				Actions: []schema.RuleAction{
					{TargetFieldID: "jmbg", Type: schema.ActionShow},
				},
			},
			{
				ID:          "show_firma",
				Description: "Podaci firme samo za pravna lica",
				Conditions: []schema.RuleConditionNode{
					{Condition: &schema.RuleCondition{FieldID: "tip_lica", Operator: schema.OperatorEquals, Value: "pravno"}},
				},
				Actions: []schema.RuleAction{
					{TargetFieldID: "naziv_firme", Type: schema.ActionShow},
					{TargetFieldID: "pib", Type: schema.ActionShow},
				},
			},
		},
		Theme: &schema.Theme{
			PrimaryColor:    "#8B5CF6",
			BackgroundColor: "#F5F3FF",
			FontFamily:      "Inter, sans-serif",
		},
	}

	return []*schema.Form{contact, survey, rules}
}

func demoSubmissions() []map[string]any {
	return []map[string]any{
		{"ime": "Marko Marković", "email": "marko@example.com", "poruka": "Odlična aplikacija!"},
		{"ime": "Ana Anić", "email": "ana@example.com", "poruka": "Imam pitanje o cenama."},
	}
}
