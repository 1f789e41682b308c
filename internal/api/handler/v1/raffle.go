package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jrmz14/proyecto-rifas/internal/api/handler/v1/request"
	"github.com/jrmz14/proyecto-rifas/internal/api/handler/v1/response"
	"github.com/jrmz14/proyecto-rifas/internal/domain"
	"github.com/jrmz14/proyecto-rifas/internal/service"
)

type RaffleService interface {
	CreateRaffle(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error)
	GetActiveRaffle(ctx context.Context) (domain.Raffle, error)
	GetRaffle(ctx context.Context, id uint) (domain.Raffle, error)
	GetOverview(ctx context.Context) (service.RaffleOverview, error)
	DeleteRaffle(ctx context.Context, id uint) error
}

type RaffleHandler struct {
	svc RaffleService
}

func NewRaffleHandler(svc RaffleService) *RaffleHandler {
	return &RaffleHandler{
		svc: svc,
	}
}

// HandleGetRaffles godoc
// @Summary      Get the raffle overview
// @Description  Returns the currently active raffle (if any) and the most recently drawn past raffles
// @Tags         raffles
// @Produce      json
// @Success      200  {object}  service.RaffleOverview
// @Failure      500  {object}  response.Err
// @Router       /raffles [get]
func (h *RaffleHandler) HandleGetRaffles(ctx *gin.Context) {
	overview, err := h.svc.GetOverview(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleGetRaffles -> h.svc.GetOverview -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, overview)
}

// HandleCreateRaffle godoc
// @Summary      Create a new raffle
// @Description  Persists the raffle and generates its full ticket sequence. Activating a raffle while another one is active is rejected.
// @Tags         raffles
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateRaffleRequest  true  "Raffle details"
// @Success      201    {object}  domain.Raffle
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /raffles [post]
// @Security BearerAuth
func (h *RaffleHandler) HandleCreateRaffle(ctx *gin.Context) {
	var input request.CreateRaffleRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	startDate, err := time.Parse("02/01/2006", input.StartDate)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid start date: %v", err)))
		return
	}

	drawDate, err := time.Parse(time.RFC3339, input.DrawDate)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid draw date: %v", err)))
		return
	}

	raffle := domain.Raffle{
		Name:        input.Name,
		Description: input.Description,
		Prize:       input.Prize,
		ImageURL:    input.ImageURL,
		Price:       input.Price,
		TicketCount: input.TicketCount,
		StartDate:   startDate,
		DrawDate:    drawDate,
		Active:      input.Active,
	}
	if raffle.TicketCount == 0 {
		raffle.TicketCount = 10000
	}

	created, err := h.svc.CreateRaffle(ctx.Request.Context(), raffle)
	if err != nil {
		if errors.Is(err, service.ErrActiveRaffleExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrActiveRaffleExists))
			return
		}

		err = fmt.Errorf("HandleCreateRaffle -> h.svc.CreateRaffle -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleDeleteRaffle godoc
// @Summary      Delete a raffle
// @Description  Removes the raffle and all of its tickets.
// @Tags         raffles
// @Produce      json
// @Param        raffleID  path  int  true  "Raffle ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID} [delete]
// @Security BearerAuth
func (h *RaffleHandler) HandleDeleteRaffle(ctx *gin.Context) {
	raffleID, err := strconv.ParseUint(ctx.Param("raffleID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid raffle ID: %w", err)))
		return
	}

	if err = h.svc.DeleteRaffle(ctx.Request.Context(), uint(raffleID)); err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("raffle", "ID", raffleID))
			return
		}

		err = fmt.Errorf("HandleDeleteRaffle -> h.svc.DeleteRaffle -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
