package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jocoker/cse340/middleware"
	"github.com/jocoker/cse340/models"
)

const (
	msgVehicleMissing        = "Sorry, we couldn't find the vehicle you requested."
	msgClassificationMissing = "Sorry, we couldn't find that classification."
	msgAddClassificationFail = "Failed to add classification."
	msgAddVehicleFail        = "Failed to add vehicle."
	msgUpdateFailed          = "Sorry, the update failed."
	msgDeleteFailed          = "Sorry, the delete failed."
	msgDeleted               = "Vehicle successfully deleted."
	msgItemNotFound          = "Inventory item not found."

	managementScript = "/js/inventory.js"
	editScript       = "/js/inv-update.js"
)

// ── Public ────────────────────────────────────────────────────────

// BuildByClassification lists the vehicles of one classification.
func (h *Handler) BuildByClassification(c *gin.Context) {
	id, ok := parseID(c.Param("classificationId"))
	if !ok {
		h.notFound(c, "Not Found", msgClassificationMissing)
		return
	}
	ctx := c.Request.Context()
	class, err := h.store.ClassificationByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		h.notFound(c, "Not Found", msgClassificationMissing)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	vehicles, err := h.store.VehiclesByClassification(ctx, id)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "inventory/classification", class.Name+" vehicles", gin.H{
		"vehicles": vehicles,
	})
}

// BuildDetail shows one vehicle and, for logged-in users, its saved state.
func (h *Handler) BuildDetail(c *gin.Context) {
	id, ok := parseID(c.Param("invId"))
	if !ok {
		h.notFound(c, "Vehicle Not Found", msgVehicleMissing)
		return
	}
	ctx := c.Request.Context()
	v, err := h.store.VehicleByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		h.notFound(c, "Vehicle Not Found", msgVehicleMissing)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	isFav := false
	if sess := middleware.SessionFrom(c); sess.LoggedIn() {
		isFav, err = h.store.IsFavorite(ctx, sess.AccountID(), v.ID)
		if err != nil {
			middleware.Logf(c, "favorite state for vehicle %d: %v", v.ID, err)
			isFav = false
		}
	}

	h.render(c, http.StatusOK, "inventory/detail", fmt.Sprintf("%d %s", v.Year, v.Name()), gin.H{
		"vehicle":    v,
		"isFavorite": isFav,
	})
}

// GetInventoryJSON feeds the management page's inventory table.
func (h *Handler) GetInventoryJSON(c *gin.Context) {
	id, ok := parseID(c.Param("classification_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No data returned"})
		return
	}
	vehicles, err := h.store.VehiclesByClassification(c.Request.Context(), id)
	if err != nil {
		middleware.Logf(c, "inventory json: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load inventory"})
		return
	}
	if len(vehicles) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No data returned"})
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// ── Employee / Admin ──────────────────────────────────────────────

// BuildInventoryManagement shows the inventory management page.
func (h *Handler) BuildInventoryManagement(c *gin.Context) {
	h.renderManagement(c, http.StatusOK, gin.H{})
}

func (h *Handler) renderManagement(c *gin.Context, status int, data gin.H) {
	classes, err := h.store.Classifications(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	data["classifications"] = classes
	data["selected"] = ""
	data["script"] = managementScript
	h.render(c, status, "inventory/management", "Inventory Management", data)
}

func (h *Handler) BuildAddClassification(c *gin.Context) {
	h.render(c, http.StatusOK, "inventory/add-classification", "Add Classification", gin.H{
		"form": classificationForm{},
	})
}

// AddClassification inserts a classification; the new name shows up in the
// navigation of the response.
func (h *Handler) AddClassification(c *gin.Context) {
	var form classificationForm
	_ = c.ShouldBind(&form)

	if verr := h.forms.check(form, classificationMessages); verr != nil {
		h.render(c, http.StatusBadRequest, "inventory/add-classification", "Add Classification", gin.H{
			"form":   form,
			"errors": verr.Messages(),
		})
		return
	}

	class, err := h.store.AddClassification(c.Request.Context(), form.Name)
	if err != nil {
		middleware.Logf(c, "add classification: %v", err)
		h.render(c, http.StatusInternalServerError, "inventory/add-classification", "Add Classification", gin.H{
			"form":   form,
			"notice": msgAddClassificationFail,
		})
		return
	}

	h.renderManagement(c, http.StatusCreated, gin.H{
		"notice": "Successfully added classification: " + class.Name,
	})
}

func (h *Handler) BuildAddInventory(c *gin.Context) {
	h.renderVehicleForm(c, http.StatusOK, "inventory/add-inventory", "Add Inventory", vehicleForm{}, gin.H{})
}

// AddInventory inserts a vehicle.
func (h *Handler) AddInventory(c *gin.Context) {
	var form vehicleForm
	_ = c.ShouldBind(&form)
	form.normalize()
	form.InvID = ""

	v, verr, err := h.parseVehicle(c, form)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if verr != nil {
		h.renderVehicleForm(c, http.StatusBadRequest, "inventory/add-inventory", "Add Inventory", form, gin.H{
			"errors": verr.Messages(),
		})
		return
	}

	if err := h.store.AddVehicle(c.Request.Context(), &v); err != nil {
		middleware.Logf(c, "add inventory: %v", err)
		h.renderVehicleForm(c, http.StatusInternalServerError, "inventory/add-inventory", "Add Inventory", form, gin.H{
			"notice": msgAddVehicleFail,
		})
		return
	}

	h.renderManagement(c, http.StatusCreated, gin.H{
		"notice": fmt.Sprintf("Successfully added %d %s.", v.Year, v.Name()),
	})
}

// BuildEditInventory shows the edit form filled from the stored vehicle.
func (h *Handler) BuildEditInventory(c *gin.Context) {
	v, ok := h.vehicleFromParam(c, "inv_id")
	if !ok {
		return
	}
	h.renderVehicleForm(c, http.StatusOK, "inventory/edit-inventory", "Edit "+v.Name(), vehicleFormFrom(v), gin.H{
		"script": editScript,
	})
}

// UpdateInventory saves the edit form.
func (h *Handler) UpdateInventory(c *gin.Context) {
	var form vehicleForm
	_ = c.ShouldBind(&form)
	form.normalize()
	title := "Edit " + form.Make + " " + form.Model

	id, ok := parseID(form.InvID)
	if !ok {
		h.flash(c, msgItemNotFound)
		c.Redirect(http.StatusFound, "/inv/")
		return
	}

	v, verr, err := h.parseVehicle(c, form)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if verr != nil {
		h.renderVehicleForm(c, http.StatusBadRequest, "inventory/edit-inventory", title, form, gin.H{
			"errors": verr.Messages(),
			"script": editScript,
		})
		return
	}
	v.ID = id

	updated, err := h.store.UpdateVehicle(c.Request.Context(), v)
	if errors.Is(err, models.ErrNotFound) {
		h.flash(c, msgItemNotFound)
		c.Redirect(http.StatusFound, "/inv/")
		return
	}
	if err != nil {
		middleware.Logf(c, "update inventory %d: %v", id, err)
		h.renderVehicleForm(c, http.StatusInternalServerError, "inventory/edit-inventory", title, form, gin.H{
			"notice": msgUpdateFailed,
			"script": editScript,
		})
		return
	}

	h.flash(c, "The "+updated.Name()+" was successfully updated.")
	c.Redirect(http.StatusFound, "/inv/")
}

// BuildDeleteConfirm shows the delete confirmation view.
func (h *Handler) BuildDeleteConfirm(c *gin.Context) {
	id, ok := parseID(c.Param("inv_id"))
	if !ok {
		h.flash(c, msgItemNotFound)
		c.Redirect(http.StatusFound, "/inv/")
		return
	}
	v, err := h.store.VehicleByID(c.Request.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		h.flash(c, msgItemNotFound)
		c.Redirect(http.StatusFound, "/inv/")
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "inventory/delete-confirm", "Delete "+v.Name(), gin.H{"vehicle": v})
}

// DeleteInventory removes the vehicle and its favorites.
func (h *Handler) DeleteInventory(c *gin.Context) {
	raw := c.PostForm("inv_id")
	id, ok := parseID(raw)
	if !ok {
		h.flash(c, msgItemNotFound)
		c.Redirect(http.StatusFound, "/inv/")
		return
	}

	if err := h.store.DeleteVehicle(c.Request.Context(), id); err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			middleware.Logf(c, "delete inventory %d: %v", id, err)
		}
		h.flash(c, msgDeleteFailed)
		c.Redirect(http.StatusFound, "/inv/delete/"+strconv.FormatUint(uint64(id), 10))
		return
	}

	h.flash(c, msgDeleted)
	c.Redirect(http.StatusFound, "/inv/")
}

// parseVehicle validates the form and checks the classification exists.
func (h *Handler) parseVehicle(c *gin.Context, form vehicleForm) (models.Vehicle, *models.ValidationError, error) {
	verr := h.forms.check(form, vehicleMessages)
	v, rangeErr := form.vehicle()
	if verr != nil || rangeErr != nil {
		return models.Vehicle{}, mergeFieldErrors(verr, rangeErr), nil
	}
	_, err := h.store.ClassificationByID(c.Request.Context(), v.ClassificationID)
	if errors.Is(err, models.ErrNotFound) {
		return models.Vehicle{}, models.NewValidationError("classification_id", msgClassificationRequired), nil
	}
	if err != nil {
		return models.Vehicle{}, nil, err
	}
	return v, nil, nil
}

func (h *Handler) vehicleFromParam(c *gin.Context, param string) (models.Vehicle, bool) {
	id, ok := parseID(c.Param(param))
	if !ok {
		h.notFound(c, "Vehicle Not Found", msgVehicleMissing)
		return models.Vehicle{}, false
	}
	v, err := h.store.VehicleByID(c.Request.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		h.notFound(c, "Vehicle Not Found", msgVehicleMissing)
		return models.Vehicle{}, false
	}
	if err != nil {
		h.serverError(c, err)
		return models.Vehicle{}, false
	}
	return v, true
}

func (h *Handler) renderVehicleForm(c *gin.Context, status int, page, title string, form vehicleForm, data gin.H) {
	classes, err := h.store.Classifications(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	data["form"] = form
	data["classifications"] = classes
	data["selected"] = form.ClassificationID
	h.render(c, status, page, title, data)
}
