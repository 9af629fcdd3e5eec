package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// CatalogHandler serves the read-only service and staff lists clients pick
// from. Catalog maintenance happens outside this API.
type CatalogHandler struct {
	db *gorm.DB
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	var services []models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("active = ?", true).
		Order("name ASC").
		Find(&services).Error; err != nil {

		httperr.Internal(c, "failed_to_list_services", "Could not load services.")
		return
	}

	httpresp.List(c, services)
}

// ListStaff lists active staff, optionally only those performing service_id.
func (h *CatalogHandler) ListStaff(c *gin.Context) {
	serviceID, ok := queryID(c, "service_id")
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).Where("active = ?", true)
	if serviceID != nil {
		q = q.Where("id IN (?)", h.db.
			Model(&models.StaffService{}).
			Select("staff_id").
			Where("service_id = ?", *serviceID))
	}

	var staff []models.Staff
	if err := q.Order("name ASC").Find(&staff).Error; err != nil {
		httperr.Internal(c, "failed_to_list_staff", "Could not load staff.")
		return
	}

	if len(staff) > 0 {
		ids := make([]uint, len(staff))
		for i, s := range staff {
			ids[i] = s.ID
		}

		var links []models.StaffService
		if err := h.db.WithContext(c.Request.Context()).
			Where("staff_id IN ?", ids).
			Find(&links).Error; err != nil {

			httperr.Internal(c, "failed_to_list_staff", "Could not load staff.")
			return
		}

		byStaff := make(map[uint][]uint, len(staff))
		for _, l := range links {
			byStaff[l.StaffID] = append(byStaff[l.StaffID], l.ServiceID)
		}
		for i := range staff {
			staff[i].ServiceIDs = byStaff[staff[i].ID]
		}
	}

	httpresp.List(c, staff)
}
