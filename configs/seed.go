package configs

import (
	"errors"
	"fmt"

	"github.com/dono45/dishsystem-by-tongyi/entity"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the admin account once. This is the only place the
// admin flag is ever set.
func SeedAdmin(db *gorm.DB, cfg *Config, log zerolog.Logger) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		log.Warn().Msg("skip seeding admin: missing ADMIN_USERNAME/ADMIN_PASSWORD")
		return nil
	}

	var exist entity.User
	err := db.Where("username = ?", cfg.AdminUsername).First(&exist).Error
	if err == nil {
		log.Debug().Str("username", cfg.AdminUsername).Msg("admin already exists")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("find admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := entity.User{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: string(hash),
		IsAdmin:  true,
	}
	if err := db.Omit("CartItems", "Orders", "Reviews").Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Info().Str("username", admin.Username).Msg("admin seeded")
	return nil
}

type seedDish struct {
	name, description, price, image string
	category                        int
}

var seedCategories = []entity.Category{
	{Name: "Sichuan", Description: "Bold, numbing and spicy"},
	{Name: "Cantonese", Description: "Light, fresh and steamed"},
	{Name: "Hunan", Description: "Hot, sour and smoky"},
	{Name: "Shandong", Description: "Savoury, crisp and braised"},
	{Name: "Jiangsu", Description: "Sweet, delicate and refined"},
	{Name: "Zhejiang", Description: "Mellow and fragrant"},
	{Name: "Fujian", Description: "Soups and seafood"},
	{Name: "Anhui", Description: "Wild herbs and stews"},
}

const imageBase = "https://cdn.pixabay.com/photo/"

var seedDishes = []seedDish{
	{"Mapo Tofu", "Silken tofu with spicy minced pork", "18.80", imageBase + "2017/08/08/17/53/mapo-tofu-2612654_960_720.jpg", 0},
	{"Kung Pao Chicken", "Diced chicken with peanuts, sweet and mildly hot", "28.80", imageBase + "2014/11/23/08/48/kung-pao-chicken-542444_960_720.jpg", 0},
	{"Boiled Fish in Chili Oil", "Tender fish slices on bean sprouts", "48.80", imageBase + "2018/08/04/14/35/fish-3581277_960_720.jpg", 0},
	{"Twice-Cooked Pork", "Pork belly stir-fried with bean paste", "32.80", imageBase + "2018/03/18/17/36/stir-fry-3237699_960_720.jpg", 0},
	{"Sliced Beef in Chili Sauce", "Cold beef and tripe, numbing and spicy", "26.80", imageBase + "2018/08/04/14/36/pork-3581278_960_720.jpg", 0},
	{"White Cut Chicken", "Poached chicken with ginger and scallion dip", "35.80", imageBase + "2018/08/04/14/37/chicken-3581279_960_720.jpg", 1},
	{"Char Siu", "Honey roasted pork", "38.80", imageBase + "2018/08/04/14/38/pork-3581280_960_720.jpg", 1},
	{"Har Gow", "Crystal shrimp dumplings", "22.80", imageBase + "2018/08/04/14/39/dim-sum-3581281_960_720.jpg", 1},
	{"Clay Pot Rice", "Rice with cured meats and a crispy crust", "29.80", imageBase + "2018/08/04/14/40/clay-pot-3581282_960_720.jpg", 1},
	{"Steamed Sea Bass", "Whole sea bass steamed with soy", "45.80", imageBase + "2018/08/04/14/41/fish-3581283_960_720.jpg", 1},
	{"Fish Head with Chopped Chili", "Steamed fish head under pickled chili", "52.80", imageBase + "2018/08/04/14/42/fish-head-3581284_960_720.jpg", 2},
	{"Stir-Fried Pork with Chili", "Hunan home style pork and peppers", "26.80", imageBase + "2018/08/04/14/43/pork-3581285_960_720.jpg", 2},
	{"Spicy Crayfish", "Crayfish in hot sauce", "38.80", imageBase + "2018/08/04/14/44/crayfish-3581286_960_720.jpg", 2},
	{"Steamed Cured Meats", "Cured pork and fish steamed together", "36.80", imageBase + "2018/08/04/14/45/sausage-3581287_960_720.jpg", 2},
	{"Sugar Oil Cakes", "Sweet glutinous rice cakes", "12.80", imageBase + "2018/08/04/14/46/dessert-3581288_960_720.jpg", 2},
	{"Sweet and Sour Carp", "Fried whole carp with sweet and sour glaze", "42.80", imageBase + "2018/08/04/14/47/fish-3581289_960_720.jpg", 3},
	{"Braised Intestines", "Nine-turn braised pork intestines", "36.80", imageBase + "2018/08/04/14/48/tripe-3581290_960_720.jpg", 3},
	{"Quick-Fried Double Crisp", "Chicken gizzard and pork tripe", "48.80", imageBase + "2018/08/04/14/49/offal-3581291_960_720.jpg", 3},
	{"Squirrel Fish", "Sweet and sour mandarin fish", "58.80", imageBase + "2018/08/04/14/50/fish-3581292_960_720.jpg", 4},
	{"Salted Duck", "Nanjing style brined duck", "32.80", imageBase + "2018/08/04/14/51/duck-3581293_960_720.jpg", 4},
}

// SeedCatalog fills an empty catalog with the default categories and dishes.
// A catalog with any category is left alone.
func SeedCatalog(db *gorm.DB, log zerolog.Logger) error {
	var count int64
	if err := db.Model(&entity.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		cats := make([]entity.Category, len(seedCategories))
		copy(cats, seedCategories)
		if err := tx.Omit("Dishes").Create(&cats).Error; err != nil {
			return fmt.Errorf("create categories: %w", err)
		}
		for _, sd := range seedDishes {
			cid := cats[sd.category].ID
			d := entity.Dish{
				Name:        sd.name,
				Description: sd.description,
				Price:       decimal.RequireFromString(sd.price),
				ImageURL:    sd.image,
				CategoryID:  &cid,
			}
			if err := tx.Omit("Category").Create(&d).Error; err != nil {
				return fmt.Errorf("create dish %q: %w", sd.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info().Int("categories", len(seedCategories)).Int("dishes", len(seedDishes)).Msg("catalog seeded")
	return nil
}
