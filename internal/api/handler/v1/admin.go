package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jrmz14/proyecto-rifas/internal/api/handler/v1/response"
	"github.com/jrmz14/proyecto-rifas/internal/domain"
	"github.com/jrmz14/proyecto-rifas/internal/service"
)

type AdminTicketService interface {
	AdminQueue(ctx context.Context, raffleID uint) ([]service.AdminTicket, error)
	ConfirmSale(ctx context.Context, ticketID uint) (domain.Ticket, *domain.Notification, error)
	CancelReservation(ctx context.Context, ticketID uint) (domain.Ticket, error)
}

type AdminHandler struct {
	svc       AdminTicketService
	raffleSvc RaffleService
}

func NewAdminHandler(svc AdminTicketService, raffleSvc RaffleService) *AdminHandler {
	return &AdminHandler{
		svc:       svc,
		raffleSvc: raffleSvc,
	}
}

// HandleGetQueue godoc
// @Summary      Get the admin management queue
// @Description  Reserved and sold tickets of the active raffle, most recent transaction first. Without an active raffle the queue is empty.
// @Tags         admin
// @Produce      json
// @Success      200  {array}   service.AdminTicket
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/tickets [get]
// @Security BearerAuth
func (h *AdminHandler) HandleGetQueue(ctx *gin.Context) {
	raffle, err := h.raffleSvc.GetActiveRaffle(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoActiveRaffle) {
			ctx.JSON(http.StatusOK, gin.H{
				"tickets": []service.AdminTicket{},
				"message": "no active raffle to manage",
			})
			return
		}

		err = fmt.Errorf("HandleGetQueue -> h.raffleSvc.GetActiveRaffle -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	queue, err := h.svc.AdminQueue(ctx.Request.Context(), raffle.ID)
	if err != nil {
		err = fmt.Errorf("HandleGetQueue -> h.svc.AdminQueue -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"tickets": queue, "raffle": raffle})
}

// HandleConfirmSale godoc
// @Summary      Confirm the sale of a reserved ticket
// @Description  Marks the ticket as sold and returns the WhatsApp notification payload for the caller to dispatch. Only reserved tickets can be confirmed.
// @Tags         admin
// @Produce      json
// @Param        ticketID  path      int  true  "Ticket ID"
// @Success      200  {object}  response.ConfirmSaleResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/tickets/{ticketID}/confirm [post]
// @Security BearerAuth
func (h *AdminHandler) HandleConfirmSale(ctx *gin.Context) {
	ticketID, err := strconv.ParseUint(ctx.Param("ticketID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid ticket ID: %w", err)))
		return
	}

	ticket, notification, err := h.svc.ConfirmSale(ctx.Request.Context(), uint(ticketID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ticket", "ID", ticketID))
		case errors.Is(err, service.ErrTicketNotReserved):
			response.RenderErr(ctx, response.ErrConflict(service.ErrTicketNotReserved))
		default:
			err = fmt.Errorf("HandleConfirmSale -> h.svc.ConfirmSale -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.ConfirmSaleResponse{
		Ticket:       ticket,
		Notification: notification,
	})
}

// HandleCancelReservation godoc
// @Summary      Cancel a ticket reservation
// @Description  Rolls a reserved ticket back to available with its buyer and payment data cleared. Tickets in any other state are left unchanged.
// @Tags         admin
// @Produce      json
// @Param        ticketID  path      int  true  "Ticket ID"
// @Success      200  {object}  domain.Ticket
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/tickets/{ticketID}/cancel [post]
// @Security BearerAuth
func (h *AdminHandler) HandleCancelReservation(ctx *gin.Context) {
	ticketID, err := strconv.ParseUint(ctx.Param("ticketID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid ticket ID: %w", err)))
		return
	}

	ticket, err := h.svc.CancelReservation(ctx.Request.Context(), uint(ticketID))
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("ticket", "ID", ticketID))
			return
		}

		err = fmt.Errorf("HandleCancelReservation -> h.svc.CancelReservation -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}
