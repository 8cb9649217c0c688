package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/toptally/scoreboard-backend/internal/dto"
	"github.com/toptally/scoreboard-backend/internal/middleware"
	"github.com/toptally/scoreboard-backend/internal/models"
	"github.com/toptally/scoreboard-backend/internal/services"
)

type ScoreboardHandler struct {
	scoreboardService   *services.ScoreboardService
	authService         *services.AuthService
	subscriptionService *services.SubscriptionService
}

func NewScoreboardHandler(
	scoreboardService *services.ScoreboardService,
	authService *services.AuthService,
	subscriptionService *services.SubscriptionService,
) *ScoreboardHandler {
	return &ScoreboardHandler{
		scoreboardService:   scoreboardService,
		authService:         authService,
		subscriptionService: subscriptionService,
	}
}

// caller resolves the authenticated user and their supporter status.
func (h *ScoreboardHandler) caller(c *fiber.Ctx) (uuid.UUID, bool, error) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return uuid.Nil, false, err
	}
	user, err := h.authService.GetUser(userID)
	if err != nil {
		return uuid.Nil, false, err
	}
	supporter, _, err := h.subscriptionService.IsSupporter(user)
	if err != nil {
		return uuid.Nil, false, err
	}
	return userID, supporter, nil
}

// ownedBoard loads the board from :id and hides it from non-owners.
func (h *ScoreboardHandler) ownedBoard(c *fiber.Ctx, userID uuid.UUID) (*models.Scoreboard, error) {
	boardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, errors.New("invalid scoreboard ID")
	}
	board, err := h.scoreboardService.Get(boardID)
	if err != nil {
		return nil, err
	}
	if board.OwnerID != userID {
		return nil, services.ErrScoreboardNotFound
	}
	return board, nil
}

func (h *ScoreboardHandler) Create(c *fiber.Ctx) error {
	userID, supporter, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateScoreboardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	board, denial, err := h.scoreboardService.Create(userID, supporter, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	if denial != nil {
		return denied(c, denial)
	}

	return c.Status(fiber.StatusCreated).JSON(board)
}

func (h *ScoreboardHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	boards, err := h.scoreboardService.ListByOwner(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch scoreboards",
		})
	}
	return c.JSON(fiber.Map{"scoreboards": boards})
}

func (h *ScoreboardHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	board, err := h.ownedBoard(c, userID)
	if err != nil {
		return boardError(c, err)
	}
	return c.JSON(board)
}

// GetPublic serves the shared/embedded view by slug, without auth.
// Private boards are indistinguishable from missing ones.
func (h *ScoreboardHandler) GetPublic(c *fiber.Ctx) error {
	board, err := h.scoreboardService.GetBySlug(c.Params("slug"))
	if err != nil || board.Visibility != models.VisibilityPublic {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Scoreboard not found",
		})
	}
	return c.JSON(board)
}

func (h *ScoreboardHandler) Update(c *fiber.Ctx) error {
	userID, supporter, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	board, err := h.ownedBoard(c, userID)
	if err != nil {
		return boardError(c, err)
	}

	var req dto.UpdateScoreboardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	updated, denial, err := h.scoreboardService.Update(board, supporter, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	if denial != nil {
		return denied(c, denial)
	}
	return c.JSON(updated)
}

func (h *ScoreboardHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	board, err := h.ownedBoard(c, userID)
	if err != nil {
		return boardError(c, err)
	}

	if err := h.scoreboardService.Delete(board); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete scoreboard",
		})
	}
	return c.JSON(fiber.Map{"message": "Scoreboard deleted"})
}

func (h *ScoreboardHandler) Unlock(c *fiber.Ctx) error {
	userID, supporter, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	board, err := h.ownedBoard(c, userID)
	if err != nil {
		return boardError(c, err)
	}

	unlocked, denial, err := h.scoreboardService.Unlock(board, supporter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to unlock scoreboard",
		})
	}
	if denial != nil {
		return denied(c, denial)
	}
	return c.JSON(unlocked)
}

func (h *ScoreboardHandler) AddEntry(c *fiber.Ctx) error {
	userID, supporter, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	board, err := h.ownedBoard(c, userID)
	if err != nil {
		return boardError(c, err)
	}

	var req dto.CreateEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	entry, denial, err := h.scoreboardService.AddEntry(board, supporter, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	if denial != nil {
		return denied(c, denial)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *ScoreboardHandler) ImportEntries(c *fiber.Ctx) error {
	userID, supporter, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	board, err := h.ownedBoard(c, userID)
	if err != nil {
		return boardError(c, err)
	}

	var req dto.ImportEntriesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	entries, denial, err := h.scoreboardService.ImportEntries(board, supporter, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	if denial != nil {
		return denied(c, denial)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"imported": len(entries),
		"entries":  entries,
	})
}

func (h *ScoreboardHandler) UpdateEntry(c *fiber.Ctx) error {
	userID, supporter, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	board, err := h.ownedBoard(c, userID)
	if err != nil {
		return boardError(c, err)
	}

	entryID, err := uuid.Parse(c.Params("entryId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid entry ID",
		})
	}

	var req dto.UpdateEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	entry, denial, err := h.scoreboardService.UpdateEntry(board, supporter, entryID, &req)
	if err != nil {
		if errors.Is(err, services.ErrEntryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Entry not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	if denial != nil {
		return denied(c, denial)
	}
	return c.JSON(entry)
}

func (h *ScoreboardHandler) DeleteEntry(c *fiber.Ctx) error {
	userID, supporter, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	board, err := h.ownedBoard(c, userID)
	if err != nil {
		return boardError(c, err)
	}

	entryID, err := uuid.Parse(c.Params("entryId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid entry ID",
		})
	}

	denial, err := h.scoreboardService.DeleteEntry(board, supporter, entryID)
	if err != nil {
		if errors.Is(err, services.ErrEntryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Entry not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete entry",
		})
	}
	if denial != nil {
		return denied(c, denial)
	}
	return c.JSON(fiber.Map{"message": "Entry deleted"})
}

func boardError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrScoreboardNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Scoreboard not found",
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: err.Error(),
	})
}
