package rest

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hkaplan/crisispin/internal/model"
)

var (
	ErrPinNotFound = errors.New("pin not found")
)

// Column list shared by every query that returns full pins. Coordinates come
// back as (longitude, latitude), matching the stored order.
const pinColumns = `
        id, title, main_category, sub_type, status, votes, image_data,
        ST_X(location::geometry) AS longitude,
        ST_Y(location::geometry) AS latitude,
        created_at`

func scanPin(row pgx.Row) (model.Pin, error) {
	var pin model.Pin
	var lng, lat float64
	err := row.Scan(
		&pin.ID, &pin.Title, &pin.MainCategory, &pin.SubType, &pin.Status,
		&pin.Votes, &pin.ImageData, &lng, &lat, &pin.CreatedAt,
	)
	if err != nil {
		return model.Pin{}, err
	}
	pin.Location = model.NewGeoPoint(lng, lat)
	return pin, nil
}

// CreatePinRepo inserts a new pin. Status, votes, id and created_at all come
// from the table defaults.
func (api *API) CreatePinRepo(ctx context.Context, req model.CreatePinRequest, imageData *string) (model.Pin, error) {
	query := `
        INSERT INTO pins (title, main_category, sub_type, image_data, location)
        VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography)
        RETURNING` + pinColumns

	row := api.DB.QueryRow(ctx, query,
		req.Title, req.MainCategory, req.SubType, imageData,
		req.Location.Longitude(), req.Location.Latitude(),
	)
	return scanPin(row)
}

// ListPinsRepo returns one page of pins, newest first, plus the total number
// of matches for the same filters.
func (api *API) ListPinsRepo(ctx context.Context, params model.ListPinsParams) (model.PinList, error) {
	// Build where clause and args dynamically
	whereClause := ""
	args := []interface{}{}
	argCount := 0

	if params.MainCategory != "" {
		argCount++
		whereClause += fmt.Sprintf(" AND main_category = $%d", argCount)
		args = append(args, params.MainCategory)
	}
	if params.SubType != "" {
		argCount++
		whereClause += fmt.Sprintf(" AND sub_type = $%d", argCount)
		args = append(args, params.SubType)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM pins WHERE TRUE` + whereClause
	if err := api.DB.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return model.PinList{}, fmt.Errorf("counting pins: %w", err)
	}

	query := fmt.Sprintf(`
        SELECT%s
        FROM pins
        WHERE TRUE%s
        ORDER BY created_at DESC
        LIMIT $%d OFFSET $%d`, pinColumns, whereClause, argCount+1, argCount+2)

	args = append(args, params.Limit, (params.Page-1)*params.Limit)

	rows, err := api.DB.Query(ctx, query, args...)
	if err != nil {
		return model.PinList{}, fmt.Errorf("querying pins: %w", err)
	}
	defer rows.Close()

	pins := []model.Pin{}
	for rows.Next() {
		pin, err := scanPin(rows)
		if err != nil {
			return model.PinList{}, fmt.Errorf("scanning pin: %w", err)
		}
		pins = append(pins, pin)
	}
	if err := rows.Err(); err != nil {
		return model.PinList{}, err
	}

	return model.PinList{
		Pins:  pins,
		Page:  params.Page,
		Limit: params.Limit,
		Total: total,
	}, nil
}

// GetNearbyPinsRepo retrieves pins within maxDistance meters of the point,
// closest first, through the spatial index.
func (api *API) GetNearbyPinsRepo(ctx context.Context, params model.NearbyPinsParams) ([]model.Pin, error) {
	query := `
        SELECT` + pinColumns + `,
            ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) AS distance
        FROM pins
        WHERE ST_DWithin(
            location,
            ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
            $3
        )
        ORDER BY distance
        LIMIT 200`

	rows, err := api.DB.Query(ctx, query, params.Longitude, params.Latitude, params.MaxDistance)
	if err != nil {
		return nil, fmt.Errorf("querying nearby pins: %w", err)
	}
	defer rows.Close()

	pins := []model.Pin{}
	for rows.Next() {
		var pin model.Pin
		var lng, lat, distance float64
		err := rows.Scan(
			&pin.ID, &pin.Title, &pin.MainCategory, &pin.SubType, &pin.Status,
			&pin.Votes, &pin.ImageData, &lng, &lat, &pin.CreatedAt, &distance,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning pin: %w", err)
		}
		pin.Location = model.NewGeoPoint(lng, lat)
		pins = append(pins, pin)
	}
	return pins, rows.Err()
}

// VotePinRepo applies a single atomic increment to the vote counter and
// returns the updated record.
func (api *API) VotePinRepo(ctx context.Context, id uuid.UUID, vote int) (model.Pin, error) {
	query := `
        UPDATE pins
        SET votes = votes + $1
        WHERE id = $2
        RETURNING` + pinColumns

	pin, err := scanPin(api.DB.QueryRow(ctx, query, vote, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Pin{}, ErrPinNotFound
	}
	return pin, err
}

// DeletePinRepo removes the record permanently.
func (api *API) DeletePinRepo(ctx context.Context, id uuid.UUID) error {
	result, err := api.DB.Exec(ctx, `DELETE FROM pins WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrPinNotFound
	}
	return nil
}

// GetSummaryRepo scans the whole collection and aggregates in one pass.
// Counts are recomputed on every call, there is no materialized state.
func (api *API) GetSummaryRepo(ctx context.Context) (model.Summary, error) {
	rows, err := api.DB.Query(ctx, `SELECT main_category, sub_type, votes FROM pins`)
	if err != nil {
		return model.Summary{}, fmt.Errorf("querying summary: %w", err)
	}
	defer rows.Close()

	summary := model.Summary{
		ByMainCategory: map[string]int{},
		BySubType:      map[string]int{},
	}
	votesTotal := 0
	for rows.Next() {
		var mainCategory, subType string
		var votes int
		if err := rows.Scan(&mainCategory, &subType, &votes); err != nil {
			return model.Summary{}, fmt.Errorf("scanning summary row: %w", err)
		}
		summary.TotalPins++
		summary.ByMainCategory[mainCategory]++
		summary.BySubType[subType]++
		votesTotal += votes
	}
	if err := rows.Err(); err != nil {
		return model.Summary{}, err
	}

	if summary.TotalPins > 0 {
		summary.AvgVotes = float64(votesTotal) / float64(summary.TotalPins)
	}
	return summary, nil
}
