package ledgersim

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/barqchain/walletctl/internal/api"
)

// handler exposes the simulator endpoints with the `{data, message}`
// envelope the client expects.
type handler struct {
	chain  *Chain
	logger *slog.Logger
}

func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"data": data})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"data": nil, "message": message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrWalletNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrTxNotFound),
		errors.Is(err, ErrBlockNotFound),
		errors.Is(err, ErrBeneficiaryMissing):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientFunds), errors.Is(err, ErrNothingToMine),
		errors.Is(err, ErrInvalidOTP), errors.Is(err, ErrBadAmount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) failErr(c *fiber.Ctx, err error) error {
	return fail(c, statusFor(err), err.Error())
}

// requireAuth resolves the bearer token and stores the caller's user id.
func (h *handler) requireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return fail(c, http.StatusUnauthorized, "missing bearer token")
	}
	userID, ok := h.chain.Authenticate(token)
	if !ok {
		return fail(c, http.StatusUnauthorized, "invalid or expired token")
	}
	c.Locals("user_id", userID)
	return c.Next()
}

func (h *handler) caller(c *fiber.Ctx) (api.User, error) {
	userID, _ := c.Locals("user_id").(string)
	return h.chain.UserByID(userID)
}

func (h *handler) register(c *fiber.Ctx) error {
	var req api.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "email and password are required")
	}
	res, err := h.chain.Register(req.Email, req.FullName, req.NationalID, req.Password)
	if err != nil {
		return h.failErr(c, err)
	}
	h.logger.Info("registered user", "email", req.Email, "wallet", res.User.WalletID)
	return respond(c, http.StatusCreated, res)
}

func (h *handler) login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	res, err := h.chain.Login(req.Email, req.Password)
	if err != nil {
		return h.failErr(c, err)
	}
	return respond(c, http.StatusOK, res)
}

func (h *handler) sendOTP(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return fail(c, http.StatusBadRequest, "email is required")
	}
	code := h.chain.IssueOTP(req.Email)
	// No outbound mail in the simulator; the operator reads the code here.
	h.logger.Info("issued otp", "email", req.Email, "otp", code)
	return respond(c, http.StatusOK, nil)
}

func (h *handler) verifyOTP(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if err := h.chain.VerifyOTP(req.Email, req.OTP); err != nil {
		return h.failErr(c, err)
	}
	return respond(c, http.StatusOK, nil)
}

func (h *handler) profile(c *fiber.Ctx) error {
	user, err := h.caller(c)
	if err != nil {
		return h.failErr(c, err)
	}
	return respond(c, http.StatusOK, user)
}

func (h *handler) updateProfile(c *fiber.Ctx) error {
	var req api.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	userID, _ := c.Locals("user_id").(string)
	user, err := h.chain.UpdateProfile(userID, req.FullName, req.Email)
	if err != nil {
		return h.failErr(c, err)
	}
	return respond(c, http.StatusOK, user)
}

func (h *handler) wallet(c *fiber.Ctx) error {
	w, err := h.chain.WalletByID(c.Params("walletId"))
	if err != nil {
		return h.failErr(c, err)
	}
	return respond(c, http.StatusOK, w)
}

func (h *handler) balance(c *fiber.Ctx) error {
	bal, err := h.chain.BalanceOf(c.Params("walletId"))
	if err != nil {
		return h.failErr(c, err)
	}
	return respond(c, http.StatusOK, bal)
}

func (h *handler) utxos(c *fiber.Ctx) error {
	utxos, err := h.chain.UTXOsOf(c.Params("walletId"))
	if err != nil {
		return h.failErr(c, err)
	}
	return respond(c, http.StatusOK, utxos)
}

func (h *handler) transactions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	txs, err := h.chain.TransactionsOf(c.Params("walletId"), limit, offset)
	if err != nil {
		return h.failErr(c, err)
	}
	return respond(c, http.StatusOK, txs)
}

func (h *handler) createTransaction(c *fiber.Ctx) error {
	var req api.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	tx, err := h.chain.SubmitTransaction(req)
	if err != nil {
		return h.failErr(c, err)
	}
	return respond(c, http.StatusCreated, tx)
}

func (h *handler) pending(c *fiber.Ctx) error {
	return respond(c, http.StatusOK, h.chain.Pending())
}

func (h *handler) transaction(c *fiber.Ctx) error {
	tx, err := h.chain.TransactionByHash(c.Params("hash"))
	if err != nil {
		return h.failErr(c, err)
	}
	return respond(c, http.StatusOK, tx)
}

func (h *handler) listBeneficiaries(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	return respond(c, http.StatusOK, h.chain.Beneficiaries(userID))
}

func (h *handler) addBeneficiary(c *fiber.Ctx) error {
	var req api.AddBeneficiaryRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	userID, _ := c.Locals("user_id").(string)
	b, err := h.chain.AddBeneficiary(userID, req)
	if err != nil {
		return h.failErr(c, err)
	}
	return respond(c, http.StatusCreated, b)
}

func (h *handler) deleteBeneficiary(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if err := h.chain.DeleteBeneficiary(userID, c.Params("id")); err != nil {
		return h.failErr(c, err)
	}
	return respond(c, http.StatusOK, nil)
}

func (h *handler) blocks(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	return respond(c, http.StatusOK, h.chain.Blocks(limit, offset))
}

func (h *handler) block(c *fiber.Ctx) error {
	index, err := strconv.ParseInt(c.Params("index"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "block index must be an integer")
	}
	b, err := h.chain.BlockByIndex(index)
	if err != nil {
		return h.failErr(c, err)
	}
	return respond(c, http.StatusOK, b)
}

func (h *handler) validate(c *fiber.Ctx) error {
	return respond(c, http.StatusOK, h.chain.Validate())
}

func (h *handler) mine(c *fiber.Ctx) error {
	user, err := h.caller(c)
	if err != nil {
		return h.failErr(c, err)
	}
	block, err := h.chain.Mine(user.WalletID)
	if err != nil {
		return h.failErr(c, err)
	}
	h.logger.Info("mined block", "index", block.BlockIndex, "miner", user.WalletID)
	return respond(c, http.StatusCreated, block)
}

func (h *handler) info(c *fiber.Ctx) error {
	return respond(c, http.StatusOK, h.chain.Info())
}

func (h *handler) miningStats(c *fiber.Ctx) error {
	return respond(c, http.StatusOK, h.chain.MiningStats())
}

func (h *handler) zakatRecords(c *fiber.Ctx) error {
	walletID := c.Query("wallet_id")
	if walletID == "" {
		return fail(c, http.StatusBadRequest, "wallet_id is required")
	}
	return respond(c, http.StatusOK, h.chain.ZakatRecords(walletID))
}

func (h *handler) triggerZakat(c *fiber.Ctx) error {
	applied := h.chain.TriggerZakat()
	h.logger.Info("zakat applied", "wallets", applied)
	return respond(c, http.StatusOK, fiber.Map{"wallets_charged": applied})
}

func (h *handler) monthlyReport(c *fiber.Ctx) error {
	report, err := h.chain.MonthlyReport(c.Params("walletId"))
	if err != nil {
		return h.failErr(c, err)
	}
	return respond(c, http.StatusOK, report)
}
