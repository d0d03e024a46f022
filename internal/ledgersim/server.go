package ledgersim

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Server wraps the Fiber application hosting the simulator API.
type Server struct {
	app   *fiber.App
	chain *Chain
}

// NewServer wires the simulator routes over a fresh chain.
func NewServer(log *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "ledgersim",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	chain := NewChain()
	h := &handler{chain: chain, logger: log}

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	root := app.Group("/api")

	auth := root.Group("/auth")
	auth.Post("/register", h.register)
	auth.Post("/login", h.login)
	auth.Post("/send-otp", h.sendOTP)
	auth.Post("/verify-otp", h.verifyOTP)
	auth.Get("/profile", h.requireAuth, h.profile)
	auth.Put("/profile", h.requireAuth, h.updateProfile)

	wallet := root.Group("/wallet", h.requireAuth)
	wallet.Get("/:walletId", h.wallet)
	wallet.Get("/:walletId/balance", h.balance)
	wallet.Get("/:walletId/utxos", h.utxos)
	wallet.Get("/:walletId/transactions", h.transactions)

	tx := root.Group("/transaction", h.requireAuth)
	tx.Post("/create", h.createTransaction)
	tx.Get("/pending", h.pending)
	tx.Get("/:hash", h.transaction)

	ben := root.Group("/beneficiaries", h.requireAuth)
	ben.Get("/", h.listBeneficiaries)
	ben.Post("/", h.addBeneficiary)
	ben.Delete("/:id", h.deleteBeneficiary)

	chainGroup := root.Group("/blockchain")
	chainGroup.Get("/blocks", h.blocks)
	chainGroup.Get("/block/:index", h.block)
	chainGroup.Get("/validate", h.validate)
	chainGroup.Post("/mine", h.requireAuth, h.mine)
	chainGroup.Get("/info", h.info)
	chainGroup.Get("/mining-stats", h.miningStats)

	root.Get("/zakat/records", h.requireAuth, h.zakatRecords)
	root.Post("/zakat/trigger", h.requireAuth, h.triggerZakat)
	root.Get("/reports/monthly/:walletId", h.requireAuth, h.monthlyReport)

	return &Server{app: app, chain: chain}
}

// Chain exposes the underlying state, used by tests to seed scenarios.
func (s *Server) Chain() *Chain {
	return s.chain
}

// Listen starts the server on addr.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Serve starts the server on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
