package seeds

import (
	"gorm.io/gorm"

	typeService "counselling_backend/internals/features/counselling/types/service"
	users "counselling_backend/internals/seeds/users/auth"
)

type Options struct {
	AdminEmail    string
	AdminPassword string
	// optional JSON list of extra users
	UsersFile string
}

func RunAllSeeds(db *gorm.DB, opt Options) error {
	//* Admin
	if err := users.SeedAdmin(db, opt.AdminEmail, opt.AdminPassword); err != nil {
		return err
	}

	//* Counselling types
	if err := typeService.EnsureDefaults(db); err != nil {
		return err
	}

	//* Users
	if opt.UsersFile != "" {
		return users.SeedUsersFromJSON(db, opt.UsersFile)
	}
	return nil
}
