package roster

import (
	"strings"

	"github.com/teamdash/break-service/internal/models"
)

// seedEntry keeps the seed table compact; full records are built in Seed.
type seedEntry struct {
	id   string
	name string
	role models.UserRole
}

var seedEntries = []seedEntry{
	// Admins
	{"1", "Atef", models.RoleAdmin},
	{"2", "Ali", models.RoleAdmin},
	{"3", "Fadl", models.RoleAdmin},
	{"4", "Fathy", models.RoleAdmin},
	// Employees
	{"5", "Abdo Sayed", models.RoleEmployee},
	{"6", "Mahmoud Waheed", models.RoleEmployee},
	{"7", "Naira Ashraf", models.RoleEmployee},
	{"8", "Mo Esam", models.RoleEmployee},
	{"9", "Obaid", models.RoleEmployee},
	{"10", "Abdelrahman Galal", models.RoleEmployee},
	{"11", "Ahmed Amir", models.RoleEmployee},
	{"12", "Ahmed Gamal", models.RoleEmployee},
	{"13", "Eman Gamal", models.RoleEmployee},
	{"14", "Abdallh Refaat", models.RoleEmployee},
	{"15", "Ahmed Hany", models.RoleEmployee},
	{"16", "Hossam Ehab", models.RoleEmployee},
	{"17", "Shahd Nabil", models.RoleEmployee},
	{"18", "Nedal Elsobky", models.RoleEmployee},
	{"19", "Rahma Seif", models.RoleEmployee},
	{"20", "Hana Khaled", models.RoleEmployee},
	{"21", "Youssry", models.RoleEmployee},
}

// Seed returns a fresh copy of the seed roster. Usernames are the lowercased
// name without spaces; passwords follow the team's FirstName123 convention
// and are compared in plaintext by product decision.
func Seed() []models.User {
	users := make([]models.User, 0, len(seedEntries))
	for _, e := range seedEntries {
		users = append(users, models.User{
			ID:          e.id,
			Name:        e.name,
			Username:    strings.ToLower(strings.ReplaceAll(e.name, " ", "")),
			Password:    seedPassword(e.name),
			Role:        e.role,
			BreakStatus: models.StatusOffline,
			Breaks:      []models.BreakRecord{},
			Tasks:       []models.Task{},
		})
	}
	return users
}

func seedPassword(name string) string {
	first := strings.Split(name, " ")[0]
	return strings.ToUpper(first[:1]) + first[1:] + "123"
}
