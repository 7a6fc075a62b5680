package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"inmomap/server/internal/models"
)

// SQLiteSource reads the property collection from a local sqlite database.
// The database is a read-only data source; the catalog never writes back.
type SQLiteSource struct {
	db *sql.DB
}

func OpenSQLiteSource(dbPath string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, err
	}

	return &SQLiteSource{db: db}, nil
}

func (s *SQLiteSource) Fetch() ([]*models.Property, error) {
	query := `
        SELECT
            id,
            titulo,
            precio,
            ubicacion,
            tipo,
            contrato,
            descripcion,
            imagen,
            latitude,
            longitude
        FROM properties
        ORDER BY rowid
    `

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %v", err)
	}
	defer rows.Close()

	var properties []*models.Property
	for rows.Next() {
		var p models.Property
		var title, price, location, propertyType, contract, description, image sql.NullString
		var latitude, longitude sql.NullFloat64

		err := rows.Scan(
			&p.ID,
			&title,
			&price,
			&location,
			&propertyType,
			&contract,
			&description,
			&image,
			&latitude,
			&longitude,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property row: %v", err)
		}

		p.Title = title.String
		p.Price = price.String
		p.Location = location.String
		p.Type = propertyType.String
		p.Contract = contract.String
		p.Description = description.String
		p.Image = image.String
		p.Coords = models.Coordinate{latitude.Float64, longitude.Float64}

		properties = append(properties, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate property rows: %v", err)
	}

	return properties, nil
}

func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
