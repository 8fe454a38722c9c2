// Package migrations содержит встраиваемые SQL-миграции goose.
// Миграции только аддитивные: новые таблицы и nullable-колонки,
// ничего не удаляем и не переписываем.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
