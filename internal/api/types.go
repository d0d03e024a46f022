package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// The service's wire contract carries amounts as JSON numbers, not strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// User is the identity record the auth endpoints return.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	WalletID  string `json:"wallet_id"`
	PublicKey string `json:"public_key"`
}

// AuthResult pairs a user with its bearer credential.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// RegisterRequest carries the enrollment profile.
type RegisterRequest struct {
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	NationalID string `json:"national_id"`
	Password   string `json:"password"`
}

// UpdateProfileRequest is a partial profile update; nil fields are untouched.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// Wallet is the remote wallet record.
type Wallet struct {
	WalletID  string    `json:"wallet_id"`
	PublicKey string    `json:"public_key"`
	CreatedAt time.Time `json:"created_at"`
}

// Balance is the point-in-time wallet snapshot. It is always re-fetched,
// never derived client-side from transaction history.
type Balance struct {
	Balance   decimal.Decimal `json:"balance"`
	UTXOCount int             `json:"utxo_count"`
}

// UTXO is a discrete spendable unit tracked by the remote ledger.
type UTXO struct {
	TxHash      string          `json:"tx_hash"`
	OutputIndex int             `json:"output_index"`
	Amount      decimal.Decimal `json:"amount"`
}

// Transaction is the wire shape shared by the pending set and confirmed
// pages. BlockIndex is nil while the transaction is unconfirmed.
type Transaction struct {
	Hash             string          `json:"hash"`
	SenderWalletID   string          `json:"sender_wallet_id"`
	ReceiverWalletID string          `json:"receiver_wallet_id"`
	Amount           decimal.Decimal `json:"amount"`
	Note             string          `json:"note,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	BlockIndex       *int64          `json:"block_index,omitempty"`
}

// CreateTransactionRequest submits a value transfer.
type CreateTransactionRequest struct {
	SenderWalletID   string          `json:"sender_wallet_id"`
	ReceiverWalletID string          `json:"receiver_wallet_id"`
	Amount           decimal.Decimal `json:"amount"`
	Note             string          `json:"note,omitempty"`
}

// Beneficiary is a saved recipient wallet identifier.
type Beneficiary struct {
	ID                  string    `json:"id"`
	BeneficiaryWalletID string    `json:"beneficiary_wallet_id"`
	Nickname            string    `json:"nickname,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// AddBeneficiaryRequest registers a trusted recipient.
type AddBeneficiaryRequest struct {
	BeneficiaryWalletID string `json:"beneficiary_wallet_id"`
	Nickname            string `json:"nickname,omitempty"`
}

// Block is a confirmed block as reported by the explorer endpoints.
type Block struct {
	Index        int64         `json:"index"`
	Hash         string        `json:"hash"`
	PreviousHash string        `json:"previous_hash"`
	Nonce        int64         `json:"nonce"`
	Timestamp    time.Time     `json:"timestamp"`
	Transactions []Transaction `json:"transactions"`
}

// ChainInfo is the display-oriented chain summary. TransactionFee feeds the
// composer's affordability check.
type ChainInfo struct {
	BlockHeight        int64           `json:"block_height"`
	TotalTransactions  int64           `json:"total_transactions"`
	PendingCount       int             `json:"pending_count"`
	TransactionFee     decimal.Decimal `json:"transaction_fee"`
	CurrentBlockReward decimal.Decimal `json:"current_block_reward"`
	Difficulty         int             `json:"difficulty"`
}

// MiningStats is optional display data; readers degrade it to zero values on
// fetch failure.
type MiningStats struct {
	TotalBlocksMined    int64           `json:"total_blocks_mined"`
	TotalRewards        decimal.Decimal `json:"total_rewards"`
	PendingTransactions int             `json:"pending_transactions"`
}

// MinedBlock is the outcome of a mining trigger.
type MinedBlock struct {
	BlockIndex int64     `json:"block_index"`
	Hash       string    `json:"hash"`
	Nonce      int64     `json:"nonce"`
	Timestamp  time.Time `json:"timestamp"`
}

// ValidationReport is the chain-validation outcome. The client trusts
// IsValid as asserted by the service.
type ValidationReport struct {
	IsValid    bool  `json:"is_valid"`
	BlockCount int64 `json:"block_count"`
}

// MonthlyReportEntry summarizes one month of wallet activity.
type MonthlyReportEntry struct {
	Month            string          `json:"month"`
	TotalSent        decimal.Decimal `json:"total_sent"`
	TotalReceived    decimal.Decimal `json:"total_received"`
	TransactionCount int             `json:"transaction_count"`
}

// ZakatRecord is one periodic deduction applied by the remote service.
type ZakatRecord struct {
	ID         string          `json:"id"`
	WalletID   string          `json:"wallet_id"`
	Amount     decimal.Decimal `json:"amount"`
	DeductedAt time.Time       `json:"deducted_at"`
}
