package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
	"github.com/gin-gonic/gin"
)

// catalogHandler serves suppliers, assets and contracts.
type catalogHandler struct {
	baseHandler
	catalog portssvc.CatalogSvcFacade
}

func registerCatalogRoutes(rg *gin.RouterGroup, base baseHandler, catalog portssvc.CatalogSvcFacade) {
	h := &catalogHandler{baseHandler: base, catalog: catalog}

	suppliers := rg.Group("/suppliers")
	{
		suppliers.POST("", h.createSupplier)
		suppliers.GET("", h.listSuppliers)
		suppliers.GET("/:id", h.getSupplier)
		suppliers.PUT("/:id", h.updateSupplier)
		suppliers.DELETE("/:id", h.deleteSupplier)
	}

	assets := rg.Group("/assets")
	{
		assets.POST("", h.createAsset)
		assets.GET("", h.listAssets)
		assets.GET("/:id", h.getAsset)
		assets.PUT("/:id", h.updateAsset)
		assets.DELETE("/:id", h.deleteAsset)
	}

	contracts := rg.Group("/contracts")
	{
		contracts.POST("", h.createContract)
		contracts.GET("", h.listContracts)
		contracts.GET("/:id", h.getContract)
		contracts.PUT("/:id", h.updateContract)
		contracts.DELETE("/:id", h.deleteContract)
	}
}

// createSupplier godoc
// @Summary Create a supplier
// @Tags suppliers
// @Accept json
// @Produce json
// @Param supplier body dto.CreateSupplierRequest true "Supplier details"
// @Success 201 {object} domain.Supplier
// @Security BearerAuth
// @Router /suppliers [post]
func (h *catalogHandler) createSupplier(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	supplier, err := h.catalog.CreateSupplier(c.Request.Context(), p, req)
	if err != nil {
		h.respondError(c, err, "create supplier")
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

// listSuppliers godoc
// @Summary List suppliers
// @Tags suppliers
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Param q query string false "Search"
// @Success 200 {object} dto.ListSuppliersResponse
// @Security BearerAuth
// @Router /suppliers [get]
func (h *catalogHandler) listSuppliers(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.badRequest(c, err)
		return
	}
	suppliers, err := h.catalog.ListSuppliers(c.Request.Context(), p, params)
	if err != nil {
		h.respondError(c, err, "list suppliers")
		return
	}
	c.JSON(http.StatusOK, dto.ListSuppliersResponse{Suppliers: suppliers})
}

// getSupplier godoc
// @Summary Get a supplier
// @Tags suppliers
// @Produce json
// @Param id path string true "Supplier ID"
// @Success 200 {object} domain.Supplier
// @Security BearerAuth
// @Router /suppliers/{id} [get]
func (h *catalogHandler) getSupplier(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	supplier, err := h.catalog.GetSupplier(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "get supplier")
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// updateSupplier godoc
// @Summary Update a supplier
// @Tags suppliers
// @Accept json
// @Produce json
// @Param id path string true "Supplier ID"
// @Param supplier body dto.UpdateSupplierRequest true "Fields to change"
// @Success 200 {object} domain.Supplier
// @Security BearerAuth
// @Router /suppliers/{id} [put]
func (h *catalogHandler) updateSupplier(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	supplier, err := h.catalog.UpdateSupplier(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		h.respondError(c, err, "update supplier")
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// deleteSupplier godoc
// @Summary Delete a supplier
// @Tags suppliers
// @Param id path string true "Supplier ID"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "Supplier is referenced"
// @Security BearerAuth
// @Router /suppliers/{id} [delete]
func (h *catalogHandler) deleteSupplier(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteSupplier(c.Request.Context(), p, c.Param("id")); err != nil {
		h.respondError(c, err, "delete supplier")
		return
	}
	c.Status(http.StatusNoContent)
}

// createAsset godoc
// @Summary Register an asset
// @Tags assets
// @Accept json
// @Produce json
// @Param asset body dto.CreateAssetRequest true "Asset details"
// @Success 201 {object} domain.Asset
// @Security BearerAuth
// @Router /assets [post]
func (h *catalogHandler) createAsset(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	asset, err := h.catalog.CreateAsset(c.Request.Context(), p, req)
	if err != nil {
		h.respondError(c, err, "create asset")
		return
	}
	c.JSON(http.StatusCreated, asset)
}

// listAssets godoc
// @Summary List assets
// @Tags assets
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Param branchCode query string false "Branch filter"
// @Success 200 {object} dto.ListAssetsResponse
// @Security BearerAuth
// @Router /assets [get]
func (h *catalogHandler) listAssets(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.badRequest(c, err)
		return
	}
	assets, err := h.catalog.ListAssets(c.Request.Context(), p, params)
	if err != nil {
		h.respondError(c, err, "list assets")
		return
	}
	c.JSON(http.StatusOK, dto.ListAssetsResponse{Assets: assets})
}

// getAsset godoc
// @Summary Get an asset
// @Tags assets
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {object} domain.Asset
// @Security BearerAuth
// @Router /assets/{id} [get]
func (h *catalogHandler) getAsset(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	asset, err := h.catalog.GetAsset(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "get asset")
		return
	}
	c.JSON(http.StatusOK, asset)
}

// updateAsset godoc
// @Summary Update an asset
// @Tags assets
// @Accept json
// @Produce json
// @Param id path string true "Asset ID"
// @Param asset body dto.UpdateAssetRequest true "Fields to change"
// @Success 200 {object} domain.Asset
// @Security BearerAuth
// @Router /assets/{id} [put]
func (h *catalogHandler) updateAsset(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	asset, err := h.catalog.UpdateAsset(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		h.respondError(c, err, "update asset")
		return
	}
	c.JSON(http.StatusOK, asset)
}

// deleteAsset godoc
// @Summary Delete an asset
// @Tags assets
// @Param id path string true "Asset ID"
// @Success 204
// @Security BearerAuth
// @Router /assets/{id} [delete]
func (h *catalogHandler) deleteAsset(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteAsset(c.Request.Context(), p, c.Param("id")); err != nil {
		h.respondError(c, err, "delete asset")
		return
	}
	c.Status(http.StatusNoContent)
}

// createContract godoc
// @Summary Register a supplier contract
// @Description The daily sweep reminds the branch before the contract ends.
// @Tags contracts
// @Accept json
// @Produce json
// @Param contract body dto.CreateContractRequest true "Contract details"
// @Success 201 {object} domain.Contract
// @Security BearerAuth
// @Router /contracts [post]
func (h *catalogHandler) createContract(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	contract, err := h.catalog.CreateContract(c.Request.Context(), p, req)
	if err != nil {
		h.respondError(c, err, "create contract")
		return
	}
	c.JSON(http.StatusCreated, contract)
}

// listContracts godoc
// @Summary List contracts
// @Tags contracts
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Param branchCode query string false "Branch filter"
// @Success 200 {object} dto.ListContractsResponse
// @Security BearerAuth
// @Router /contracts [get]
func (h *catalogHandler) listContracts(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.badRequest(c, err)
		return
	}
	contracts, err := h.catalog.ListContracts(c.Request.Context(), p, params)
	if err != nil {
		h.respondError(c, err, "list contracts")
		return
	}
	c.JSON(http.StatusOK, dto.ListContractsResponse{Contracts: contracts})
}

// getContract godoc
// @Summary Get a contract
// @Tags contracts
// @Produce json
// @Param id path string true "Contract ID"
// @Success 200 {object} domain.Contract
// @Security BearerAuth
// @Router /contracts/{id} [get]
func (h *catalogHandler) getContract(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	contract, err := h.catalog.GetContract(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "get contract")
		return
	}
	c.JSON(http.StatusOK, contract)
}

// updateContract godoc
// @Summary Update a contract
// @Tags contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID"
// @Param contract body dto.UpdateContractRequest true "Fields to change"
// @Success 200 {object} domain.Contract
// @Security BearerAuth
// @Router /contracts/{id} [put]
func (h *catalogHandler) updateContract(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	contract, err := h.catalog.UpdateContract(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		h.respondError(c, err, "update contract")
		return
	}
	c.JSON(http.StatusOK, contract)
}

// deleteContract godoc
// @Summary Delete a contract
// @Tags contracts
// @Param id path string true "Contract ID"
// @Success 204
// @Security BearerAuth
// @Router /contracts/{id} [delete]
func (h *catalogHandler) deleteContract(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteContract(c.Request.Context(), p, c.Param("id")); err != nil {
		h.respondError(c, err, "delete contract")
		return
	}
	c.Status(http.StatusNoContent)
}
