package main

import (
	"log"

	"golang.org/x/crypto/bcrypt"

	authentity "criaconecta_backend/internal/feature/auth/domain/entity"
	briefingentity "criaconecta_backend/internal/feature/briefing/domain/entity"
	platformdb "criaconecta_backend/internal/platform/db"
)

// デモデータを投入する開発用コマンド。スキーマを作り直すため本番では使わないこと。
func main() {
	db := platformdb.OpenDB()

	if err := db.Migrator().DropTable(&briefingentity.Briefing{}, &authentity.User{}); err != nil {
		log.Fatalf("failed to drop tables: %v", err)
	}
	if err := db.AutoMigrate(&authentity.User{}, &briefingentity.Briefing{}); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	hash := func(pw string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		return string(h)
	}

	company := &authentity.User{
		Name:     "Boutique Chique",
		Email:    "empresa@email.com",
		Password: hash("12345678"),
		Role:     authentity.RoleCompany,
		Plan:     authentity.PlanFree,
	}
	creator := &authentity.User{
		Name:     "Ana Culinária",
		Email:    "criador@email.com",
		Password: hash("12345678"),
		Role:     authentity.RoleCreator,
		Plan:     authentity.PlanFree,
	}
	if err := db.Create(company).Error; err != nil {
		log.Fatalf("failed to create company: %v", err)
	}
	if err := db.Create(creator).Error; err != nil {
		log.Fatalf("failed to create creator: %v", err)
	}

	briefing := &briefingentity.Briefing{
		Title:     "Campanha de Dia das Mães",
		Budget:    750.50,
		Status:    briefingentity.StatusPendingPayment,
		CompanyID: company.ID,
		CreatorID: &creator.ID,
	}
	if err := db.Create(briefing).Error; err != nil {
		log.Fatalf("failed to create briefing: %v", err)
	}

	log.Println("seed ok")
}
