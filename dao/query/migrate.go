package query

import (
	"embed"
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"k8s.io/utils/ptr"

	"github.com/vision-lab/trainforge/dao/model"
)

//go:embed seed/*.py
var seedScripts embed.FS

// classificationRecipe is the canonical environment this service was built to
// reproduce: the animal-classification training runtime. Package order and the
// opencv pin are part of the environment contract, do not reorder or bump.
func classificationRecipe() (*model.Recipe, error) {
	scripts := make([]model.ScriptFile, 0, 3)
	for _, name := range []string{
		"classification_train.py",
		"classification_datasets.py",
		"classification_models.py",
	} {
		content, err := seedScripts.ReadFile("seed/" + name)
		if err != nil {
			return nil, fmt.Errorf("read seed script %s: %w", name, err)
		}
		scripts = append(scripts, model.ScriptFile{Name: name, Content: string(content)})
	}

	return &model.Recipe{
		Name:        "classification-train",
		Description: ptr.To("Animal classification training environment"),
		BaseImage:   "pytorch/pytorch:1.12.1-cuda11.3-cudnn8-runtime",
		WorkDir:     "/workspace",
		EntryScript: "classification_train.py",
		AptPackages: datatypes.NewJSONSlice([]string{
			"libgl1-mesa-glx",
			"libglib2.0-0",
			"vim",
		}),
		PipPackages: datatypes.NewJSONSlice([]string{
			"pandas",
			"scikit-learn",
			"matplotlib",
			"opencv-python==4.8.1.78",
			"tensorboard",
			"torchsummary",
		}),
		Scripts: datatypes.NewJSONType(scripts),
	}, nil
}

// Migrate applies schema migrations and seeds the canonical recipe.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "202608010001",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&model.User{},
					&model.Recipe{},
					&model.Build{},
					&model.Image{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					&model.Image{},
					&model.Build{},
					&model.Recipe{},
					&model.User{},
				)
			},
		},
		{
			ID: "202608010002",
			Migrate: func(tx *gorm.DB) error {
				recipe, err := classificationRecipe()
				if err != nil {
					return err
				}
				var count int64
				if err := tx.Model(&model.Recipe{}).
					Where("name = ?", recipe.Name).
					Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					return nil
				}
				// The seed recipe predates any signup, hang it off a
				// system account so the owner foreign key holds.
				system := model.User{
					Name:     "system",
					Nickname: ptr.To("System"),
					Role:     model.RoleAdmin,
					Status:   model.StatusInactive,
				}
				if err := tx.Where("name = ?", system.Name).
					FirstOrCreate(&system).Error; err != nil {
					return err
				}
				recipe.UserID = system.ID
				return tx.Create(recipe).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Where("name = ?", "classification-train").
					Delete(&model.Recipe{}).Error
			},
		},
	})
	return m.Migrate()
}
