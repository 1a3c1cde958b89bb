package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/dcode-github/rental_booking_system/booking"
	"github.com/dcode-github/rental_booking_system/cache"
	"github.com/dcode-github/rental_booking_system/models"
	"github.com/dcode-github/rental_booking_system/store"
	"github.com/dcode-github/rental_booking_system/utils"
)

const maxListLimit = 100

// Repository is the catalog and dashboard side of the store.
type Repository interface {
	CreateProperty(ctx context.Context, p models.Property) (models.Property, error)
	GetProperty(ctx context.Context, id string) (models.Property, error)
	GetPublishedProperty(ctx context.Context, id string) (models.Property, error)
	ListPublishedProperties(ctx context.Context, f models.PropertyFilter) ([]models.Property, error)
	ListPropertiesByOwner(ctx context.Context, ownerID string) ([]models.Property, error)
	UpdateProperty(ctx context.Context, p models.Property) (models.Property, error)
	UpdatePropertyStatus(ctx context.Context, id, ownerID string, status models.PropertyStatus) (models.Property, error)
	DeleteProperty(ctx context.Context, id, ownerID string) error
	ListBookingsByOwner(ctx context.Context, ownerID string) ([]models.OwnerBooking, error)
}

func invalidateCatalog(c cache.Cache) {
	go c.Invalidate(context.Background())
}

func parsePropertyFilter(query url.Values) (models.PropertyFilter, error) {
	f := models.PropertyFilter{
		Location:     strings.TrimSpace(query.Get("location")),
		PropertyType: strings.TrimSpace(query.Get("type")),
	}

	parsePrice := func(name string) (*float64, error) {
		raw := query.Get(name)
		if raw == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return nil, errors.New(name + " must be a non-negative number")
		}
		return &v, nil
	}

	var err error
	if f.MinPrice, err = parsePrice("min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parsePrice("max_price"); err != nil {
		return f, err
	}

	if raw := query.Get("guests"); raw != "" {
		f.Guests, err = strconv.Atoi(raw)
		if err != nil || f.Guests < 1 {
			return f, errors.New("guests must be a positive integer")
		}
	}
	if raw := query.Get("limit"); raw != "" {
		f.Limit, err = strconv.Atoi(raw)
		if err != nil || f.Limit < 1 || f.Limit > maxListLimit {
			return f, errors.New("limit must be between 1 and 100")
		}
	}
	return f, nil
}

func marshalOK(data interface{}) ([]byte, error) {
	return json.Marshal(models.APIResponse{Success: true, Data: data})
}

// GetPublishedProperties lists the public catalog, newest first.
func GetPublishedProperties(repo Repository, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filter, err := parsePropertyFilter(query)
		if err != nil {
			malformed(w, "%v", err)
			return
		}

		data, err := c.Fetch(r.Context(), cache.Key("list", query), func(ctx context.Context) ([]byte, error) {
			properties, err := repo.ListPublishedProperties(ctx, filter)
			if err != nil {
				return nil, err
			}
			return marshalOK(properties)
		})
		if err != nil {
			log.Printf("Error fetching properties with filter %+v: %v", filter, err)
			WriteError(w, http.StatusInternalServerError, kindInternal, "Error fetching properties")
			return
		}
		writeRaw(w, data)
	}
}

func GetPublishedProperty(repo Repository, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]

		data, err := c.Fetch(r.Context(), cache.Key("detail:"+propertyID, nil), func(ctx context.Context) ([]byte, error) {
			property, err := repo.GetPublishedProperty(ctx, propertyID)
			if err != nil {
				return nil, err
			}
			return marshalOK(property)
		})
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, string(booking.KindPropertyNotFound), "property not found or not available")
			return
		}
		if err != nil {
			log.Printf("Error fetching property %s: %v", propertyID, err)
			WriteError(w, http.StatusInternalServerError, kindInternal, "Error fetching property")
			return
		}
		writeRaw(w, data)
	}
}

func decodePropertyInput(w http.ResponseWriter, r *http.Request) (models.PropertyInput, bool) {
	var in models.PropertyInput
	if !decodeBody(w, r, &in) {
		return in, false
	}
	if err := validate.Struct(in); err != nil {
		malformed(w, "%s", utils.ValidationMessage(err))
		return in, false
	}
	return in, true
}

func CreateProperty(repo Repository, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireAccount(w, r)
		if !ok {
			return
		}
		in, ok := decodePropertyInput(w, r)
		if !ok {
			return
		}

		property, err := repo.CreateProperty(r.Context(), in.ToProperty(userID))
		if err != nil {
			log.Printf("Insert failed: %v", err)
			WriteError(w, http.StatusInternalServerError, kindInternal, "Failed to create property")
			return
		}

		if property.Status == models.PropertyPublished {
			invalidateCatalog(c)
		}
		WriteJSON(w, http.StatusCreated, models.APIResponse{Success: true, Message: "Property created successfully", Data: property})
	}
}

func GetOwnerProperties(repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireAccount(w, r)
		if !ok {
			return
		}
		properties, err := repo.ListPropertiesByOwner(r.Context(), userID)
		if err != nil {
			log.Printf("Error fetching properties of %s: %v", userID, err)
			WriteError(w, http.StatusInternalServerError, kindInternal, "Error fetching properties")
			return
		}
		WriteJSON(w, http.StatusOK, models.APIResponse{Success: true, Data: properties})
	}
}

// writeOwnedWriteError explains why an owner-scoped write matched nothing:
// the property either does not exist or belongs to someone else.
func writeOwnedWriteError(w http.ResponseWriter, r *http.Request, repo Repository, propertyID, userID string, err error) {
	if !errors.Is(err, store.ErrNotFound) {
		log.Printf("Write failed for property %s: %v", propertyID, err)
		WriteError(w, http.StatusInternalServerError, kindInternal, "Failed to update property")
		return
	}
	if _, getErr := repo.GetProperty(r.Context(), propertyID); getErr == nil {
		log.Printf("Account %s is not the owner of property %s", userID, propertyID)
		WriteError(w, http.StatusForbidden, string(booking.KindForbidden), "only the owner can change this property")
		return
	}
	WriteError(w, http.StatusNotFound, string(booking.KindPropertyNotFound), "property not found")
}

func UpdateProperty(repo Repository, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireAccount(w, r)
		if !ok {
			return
		}
		propertyID := mux.Vars(r)["id"]
		in, ok := decodePropertyInput(w, r)
		if !ok {
			return
		}

		p := in.ToProperty(userID)
		p.ID = propertyID
		p.Status = models.PropertyStatus(in.Status)

		updated, err := repo.UpdateProperty(r.Context(), p)
		if err != nil {
			writeOwnedWriteError(w, r, repo, propertyID, userID, err)
			return
		}

		invalidateCatalog(c)
		WriteJSON(w, http.StatusOK, models.APIResponse{Success: true, Message: "Property updated successfully", Data: updated})
	}
}

type propertyStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=draft published"`
}

func UpdatePropertyStatus(repo Repository, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireAccount(w, r)
		if !ok {
			return
		}
		propertyID := mux.Vars(r)["id"]

		var body propertyStatusUpdate
		if !decodeBody(w, r, &body) {
			return
		}
		if err := validate.Struct(body); err != nil {
			malformed(w, "%s", utils.ValidationMessage(err))
			return
		}

		updated, err := repo.UpdatePropertyStatus(r.Context(), propertyID, userID, models.PropertyStatus(body.Status))
		if err != nil {
			writeOwnedWriteError(w, r, repo, propertyID, userID, err)
			return
		}

		invalidateCatalog(c)
		WriteJSON(w, http.StatusOK, models.APIResponse{Success: true, Message: "Property status updated", Data: updated})
	}
}

func DeleteProperty(repo Repository, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireAccount(w, r)
		if !ok {
			return
		}
		propertyID := mux.Vars(r)["id"]

		if err := repo.DeleteProperty(r.Context(), propertyID, userID); err != nil {
			writeOwnedWriteError(w, r, repo, propertyID, userID, err)
			return
		}

		invalidateCatalog(c)
		WriteJSON(w, http.StatusOK, models.APIResponse{Success: true, Message: "Property deleted successfully"})
	}
}
