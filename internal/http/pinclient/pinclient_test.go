package pinclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hkaplan/crisispin/internal/model"
)

func TestListPins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/pins", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "Hazard", r.URL.Query().Get("mainCategory"))

		json.NewEncoder(w).Encode(model.PinList{
			Pins:  []model.Pin{{ID: uuid.New(), MainCategory: "Hazard", SubType: "Fire", Location: model.NewGeoPoint(1, 2)}},
			Page:  2,
			Limit: 50,
			Total: 51,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	list, err := c.ListPins(context.Background(), ListParams{Page: 2, Limit: 50, MainCategory: "Hazard"})

	require.NoError(t, err)
	assert.Equal(t, 51, list.Total)
	require.Len(t, list.Pins, 1)
	assert.Equal(t, []float64{1, 2}, list.Pins[0].Location.Coordinates)
}

func TestCreatePin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/pins", r.URL.Path)

		var req model.CreatePinRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		// coordinate order must survive the round trip
		assert.Equal(t, []float64{33.36, 35.34}, req.Location.Coordinates)

		json.NewEncoder(w).Encode(model.Pin{
			ID:           uuid.New(),
			MainCategory: req.MainCategory,
			SubType:      req.SubType,
			Status:       model.DefaultStatus,
			Location:     req.Location,
			CreatedAt:    time.Now().UTC(),
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	pin, err := c.CreatePin(context.Background(), model.CreatePinRequest{
		MainCategory: "Hazard",
		SubType:      "Fire",
		Location:     model.NewGeoPoint(33.36, 35.34),
	})

	require.NoError(t, err)
	assert.Equal(t, "Active", pin.Status)
	assert.Equal(t, []float64{33.36, 35.34}, pin.Location.Coordinates)
}

func TestVote(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/pins/"+id.String()+"/vote", r.URL.Path)

		var req model.VoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, -1, req.Vote)

		json.NewEncoder(w).Encode(model.Pin{ID: id, Votes: 7, Location: model.NewGeoPoint(0, 0)})
	}))
	defer srv.Close()

	c := New(srv.URL)
	pin, err := c.Vote(context.Background(), id.String(), -1)

	require.NoError(t, err)
	assert.Equal(t, 7, pin.Votes)
}

func TestDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
	}))
	defer srv.Close()

	assert.NoError(t, New(srv.URL).Delete(context.Background(), uuid.NewString()))
}

func TestSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/summary", r.URL.Path)
		json.NewEncoder(w).Encode(model.Summary{
			TotalPins:      3,
			ByMainCategory: map[string]int{"Hazard": 3},
			BySubType:      map[string]int{"Fire": 3},
			AvgVotes:       1.5,
		})
	}))
	defer srv.Close()

	summary, err := New(srv.URL).Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalPins)
	assert.InDelta(t, 1.5, summary.AvgVotes, 1e-9)
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	t.Run("error field", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Pin not found"})
		}))
		defer srv.Close()

		_, err := New(srv.URL).Vote(context.Background(), uuid.NewString(), 1)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Equal(t, "Pin not found", apiErr.Message)
	})

	t.Run("field errors flattened", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"errors": []map[string]string{{"field": "lng", "message": "must be a number"}},
			})
		}))
		defer srv.Close()

		_, err := New(srv.URL).NearbyPins(context.Background(), 0, 0, 0)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Contains(t, apiErr.Message, "lng must be a number")
	})

	t.Run("undecodable body falls back to generic", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
		}))
		defer srv.Close()

		err := New(srv.URL).Delete(context.Background(), uuid.NewString())

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "request failed", apiErr.Message)
	})
}
