package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jrmz14/proyecto-rifas/internal/api/handler/v1/request"
	"github.com/jrmz14/proyecto-rifas/internal/api/handler/v1/response"
	"github.com/jrmz14/proyecto-rifas/internal/domain"
	"github.com/jrmz14/proyecto-rifas/internal/service"
)

type TicketService interface {
	PurchaseBatch(ctx context.Context, raffleID uint, numbers []string, buyer domain.Buyer, payment domain.Payment) error
	ListRange(ctx context.Context, raffle domain.Raffle, rangeParam string) (service.RangeListing, error)
	Search(ctx context.Context, raffleID uint, query string) ([]domain.TicketStatus, error)
	Statuses(ctx context.Context, raffleID uint) ([]domain.TicketStatus, error)
}

type TicketHandler struct {
	svc       TicketService
	raffleSvc RaffleService
}

func NewTicketHandler(svc TicketService, raffleSvc RaffleService) *TicketHandler {
	return &TicketHandler{
		svc:       svc,
		raffleSvc: raffleSvc,
	}
}

// HandleListTickets godoc
// @Summary      List one block of a raffle's ticket board
// @Description  Returns the tickets of the requested number range plus the navigable blocks. A missing or malformed range falls back to the first block.
// @Tags         tickets
// @Produce      json
// @Param        raffleID  path      int     true   "Raffle ID"
// @Param        range     query     string  false  "Number range, e.g. 000-099"
// @Success      200  {object}  service.RangeListing
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID}/tickets [get]
func (h *TicketHandler) HandleListTickets(ctx *gin.Context) {
	raffleID, err := strconv.ParseUint(ctx.Param("raffleID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid raffle ID: %w", err)))
		return
	}

	raffle, err := h.raffleSvc.GetRaffle(ctx.Request.Context(), uint(raffleID))
	if err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("raffle", "ID", raffleID))
			return
		}

		err = fmt.Errorf("HandleListTickets -> h.raffleSvc.GetRaffle -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	listing, err := h.svc.ListRange(ctx.Request.Context(), raffle, ctx.Query("range"))
	if err != nil {
		err = fmt.Errorf("HandleListTickets -> h.svc.ListRange -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, listing)
}

// HandlePurchase godoc
// @Summary      Purchase a batch of ticket numbers
// @Description  Reserves the requested numbers of the active raffle for the buyer, all or nothing. On failure the response names the offending number.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        input  body      request.PurchaseRequest  true  "Requested numbers with buyer and payment data"
// @Success      200    {object}  response.TicketStatusesResponse
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.PurchaseFailure
// @Failure      409    {object}  response.PurchaseFailure
// @Failure      500    {object}  response.Err
// @Router       /purchases [post]
func (h *TicketHandler) HandlePurchase(ctx *gin.Context) {
	raffle, err := h.raffleSvc.GetActiveRaffle(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoActiveRaffle) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrNoActiveRaffle))
			return
		}

		err = fmt.Errorf("HandlePurchase -> h.raffleSvc.GetActiveRaffle -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	var input request.PurchaseRequest
	if err = ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	buyer := domain.Buyer{
		NationalID: input.NationalID,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Phone:      input.Phone,
	}
	payment := domain.Payment{
		Bank:          input.Bank,
		Reference:     input.Reference,
		TransferImage: input.TransferImage,
	}

	err = h.svc.PurchaseBatch(ctx.Request.Context(), raffle.ID, input.Numbers, buyer, payment)
	if err != nil {
		var batchErr *service.BatchError
		switch {
		case errors.As(err, &batchErr):
			renderBatchError(ctx, batchErr)
		case errors.Is(err, service.ErrEmptyBatch):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrEmptyBatch))
		default:
			err = fmt.Errorf("HandlePurchase -> h.svc.PurchaseBatch -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "reserved": input.Numbers})
}

// HandleSearch godoc
// @Summary      Search ticket numbers by prefix
// @Description  Incremental lookup over the active raffle, capped at 50 results. Queries shorter than two characters and the no-active-raffle case both return an empty list.
// @Tags         tickets
// @Produce      json
// @Param        q    query     string  true  "Number prefix"
// @Success      200  {object}  response.TicketStatusesResponse
// @Failure      500  {object}  response.Err
// @Router       /tickets/search [get]
func (h *TicketHandler) HandleSearch(ctx *gin.Context) {
	raffle, err := h.raffleSvc.GetActiveRaffle(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoActiveRaffle) {
			ctx.JSON(http.StatusOK, response.TicketStatusesResponse{Numbers: []domain.TicketStatus{}})
			return
		}

		err = fmt.Errorf("HandleSearch -> h.raffleSvc.GetActiveRaffle -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	statuses, err := h.svc.Search(ctx.Request.Context(), raffle.ID, ctx.Query("q"))
	if err != nil {
		err = fmt.Errorf("HandleSearch -> h.svc.Search -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.TicketStatusesResponse{Numbers: statuses})
}

// HandleGetStatuses godoc
// @Summary      Get the state of every ticket in the active raffle
// @Tags         tickets
// @Produce      json
// @Success      200  {object}  response.TicketStatusesResponse
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /tickets/status [get]
func (h *TicketHandler) HandleGetStatuses(ctx *gin.Context) {
	raffle, err := h.raffleSvc.GetActiveRaffle(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoActiveRaffle) {
			response.RenderErr(ctx, response.ErrNotFound("raffle", "active", true))
			return
		}

		err = fmt.Errorf("HandleGetStatuses -> h.raffleSvc.GetActiveRaffle -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	statuses, err := h.svc.Statuses(ctx.Request.Context(), raffle.ID)
	if err != nil {
		err = fmt.Errorf("HandleGetStatuses -> h.svc.Statuses -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.TicketStatusesResponse{Numbers: statuses})
}

// renderBatchError maps an all-or-nothing batch failure to the buyer:
// a number missing from the raffle is 404, a number no longer
// available is 409, and either way no ticket of the batch changed.
func renderBatchError(ctx *gin.Context, batchErr *service.BatchError) {
	failure := response.PurchaseFailure{
		Number: batchErr.Number,
		Reason: batchErr.Err.Error(),
		State:  batchErr.State,
	}

	if errors.Is(batchErr.Err, service.ErrTicketNotFound) {
		ctx.AbortWithStatusJSON(http.StatusNotFound, failure)
		return
	}

	ctx.AbortWithStatusJSON(http.StatusConflict, failure)
}
