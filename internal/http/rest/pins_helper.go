package rest

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hkaplan/crisispin/internal/model"
	"github.com/hkaplan/crisispin/util"
	"github.com/hkaplan/crisispin/util/values"
)

func (api *API) CreatePinHelper(ctx context.Context, req model.CreatePinRequest) (model.Pin, string, string, error) {
	// Oversized images are dropped, the pin itself still persists.
	imageData := util.SanitizeImageBase64(req.ImageData, api.Config.MaxImageBytes)

	pin, err := api.CreatePinRepo(ctx, req, imageData)
	if err != nil {
		return model.Pin{}, values.Error, "Server error creating pin", err
	}
	return pin, values.Success, "Pin created successfully", nil
}

func (api *API) ListPinsHelper(ctx context.Context, params model.ListPinsParams) (model.PinList, string, string, error) {
	list, err := api.ListPinsRepo(ctx, params)
	if err != nil {
		return model.PinList{}, values.Error, "Failed to retrieve pins", err
	}
	return list, values.Success, "Pins fetched successfully", nil
}

func (api *API) GetNearbyPinsHelper(ctx context.Context, params model.NearbyPinsParams) ([]model.Pin, string, string, error) {
	pins, err := api.GetNearbyPinsRepo(ctx, params)
	if err != nil {
		return nil, values.Error, "Failed proximity search", err
	}
	return pins, values.Success, "Nearby pins fetched successfully", nil
}

func (api *API) VotePinHelper(ctx context.Context, id uuid.UUID, vote int) (model.Pin, string, string, error) {
	pin, err := api.VotePinRepo(ctx, id, vote)
	if errors.Is(err, ErrPinNotFound) {
		return model.Pin{}, values.NotFound, "Pin not found", err
	}
	if err != nil {
		return model.Pin{}, values.Error, "Server error updating vote", err
	}
	return pin, values.Success, "Vote recorded", nil
}

func (api *API) DeletePinHelper(ctx context.Context, id uuid.UUID) (string, string, error) {
	err := api.DeletePinRepo(ctx, id)
	if errors.Is(err, ErrPinNotFound) {
		return values.NotFound, "Pin not found", err
	}
	if err != nil {
		return values.Error, "Server error deleting pin", err
	}
	return values.Success, "deleted", nil
}

func (api *API) GetSummaryHelper(ctx context.Context) (model.Summary, string, string, error) {
	summary, err := api.GetSummaryRepo(ctx)
	if err != nil {
		return model.Summary{}, values.Error, "Failed to compute summary", err
	}
	return summary, values.Success, "Summary computed successfully", nil
}
