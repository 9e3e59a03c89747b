package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/app/services"
	"github.com/shashiranjanraj/medicore/pkg/cache"
	"github.com/shashiranjanraj/medicore/pkg/orm"
	"github.com/shashiranjanraj/medicore/pkg/response"
)

type OfferController struct{}

func NewOfferController() *OfferController {
	return &OfferController{}
}

type offerInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description" validate:"nullable,max=1000"`
	ServiceID   uint    `json:"service_id" validate:"required,numeric"`
	Price       float64 `json:"price" validate:"required,numeric,gt=0"`
	Discount    float64 `json:"discount" validate:"nullable,numeric,between=0,100"`
	Tax         float64 `json:"tax" validate:"nullable,numeric,between=0,100"`
}

// Add creates an offer. The total with tax is denormalized at write time.
func (c *OfferController) Add(w http.ResponseWriter, r *http.Request) {
	var in offerInput
	if !bindJSON(w, r, &in) {
		return
	}

	var svc models.Service
	if err := orm.DB().Model(&models.Service{}).Where("id = ?", in.ServiceID).First(&svc); err != nil {
		if orm.IsNotFound(err) {
			response.ValidationError(w, map[string]string{"service_id": "service does not exist"})
			return
		}
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	offer := models.Offer{
		Name:        in.Name,
		Description: in.Description,
		ServiceID:   in.ServiceID,
		Price:       in.Price,
		Discount:    in.Discount,
		Tax:         in.Tax,
	}
	offer.ComputeTotal()

	if err := orm.DB().Create(&offer); err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	services.InvalidateOffers()
	response.Created(w, offer)
}

// Update modifies an offer by id and recomputes the total.
func (c *OfferController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in offerInput
	if !bindJSON(w, r, &in) {
		return
	}

	var offer models.Offer
	if err := orm.DB().Model(&models.Offer{}).Where("id = ?", id).First(&offer); err != nil {
		if orm.IsNotFound(err) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	offer.Name = in.Name
	offer.Description = in.Description
	offer.ServiceID = in.ServiceID
	offer.Price = in.Price
	offer.Discount = in.Discount
	offer.Tax = in.Tax
	offer.ComputeTotal()

	if err := orm.DB().Save(&offer); err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	services.InvalidateOffers()
	response.Success(w, offer)
}

// Delete removes an offer by id.
func (c *OfferController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	rows, err := orm.DB().Where("id = ?", id).Delete(&models.Offer{})
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if rows == 0 {
		response.NotFound(w)
		return
	}

	services.InvalidateOffers()
	response.Info(w, "offer deleted")
}

// Show returns one offer by id.
func (c *OfferController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var offer models.Offer
	if err := orm.DB().Model(&models.Offer{}).Where("id = ?", id).First(&offer); err != nil {
		if orm.IsNotFound(err) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Success(w, offer)
}

// List returns all offers from cache when warm; the listing is
// read-mostly and invalidated on every write.
func (c *OfferController) List(w http.ResponseWriter, r *http.Request) {
	var offers []models.Offer
	if err := orm.DB().Model(&models.Offer{}).
		Order("id desc").
		Cache(services.OffersCacheKey, cache.Forever, &offers); err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Success(w, offers)
}

// Search filters offers by substring over the name column.
func (c *OfferController) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	page, perPage := pageParams(r)

	var offers []models.Offer
	pagination, err := orm.DB().Model(&models.Offer{}).
		Search(term, "name", "description").
		Order("id desc").
		GetWithPagination(&offers, page, perPage)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Paginated(w, offers, pagination)
}
