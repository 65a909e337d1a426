package postgres

import "github.com/RedBear961/qrcreator/internal/domain/entity"

// Migrations is a list of all gorm migrations for the database.
var Migrations = []interface{}{
	&entity.Setting{},
	&entity.ClipboardImage{},
}
