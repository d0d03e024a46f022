package ledgersim

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/barqchain/walletctl/internal/api"
)

// Simulator defaults. The fee and reward mirror what the real service
// reports through /blockchain/info.
var (
	defaultFee    = decimal.RequireFromString("0.1")
	defaultReward = decimal.RequireFromString("50")
	devGrant      = decimal.RequireFromString("100")
	zakatRate     = decimal.RequireFromString("0.025")
	zakatNisab    = decimal.RequireFromString("85")
)

const simDifficulty = 2

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrTxNotFound         = errors.New("transaction not found")
	ErrBlockNotFound      = errors.New("block not found")
	ErrInvalidOTP         = errors.New("invalid or expired otp")
	ErrInsufficientFunds  = errors.New("insufficient balance in wallet")
	ErrBadAmount          = errors.New("amount must be positive")
	ErrNothingToMine      = errors.New("no pending transactions to mine")
	ErrBeneficiaryMissing = errors.New("beneficiary not found")
)

type user struct {
	ID           string
	Email        string
	FullName     string
	NationalID   string
	PasswordHash []byte
	WalletID     string
}

type walletState struct {
	api.Wallet
	utxos []api.UTXO
}

func (w *walletState) balance() decimal.Decimal {
	total := decimal.Zero
	for _, u := range w.utxos {
		total = total.Add(u.Amount)
	}
	return total
}

func (w *walletState) credit(txHash string, amount decimal.Decimal) {
	w.utxos = append(w.utxos, api.UTXO{
		TxHash:      txHash,
		OutputIndex: len(w.utxos),
		Amount:      amount,
	})
}

// debit consumes outputs greedily and appends a change output when the last
// consumed one overshoots.
func (w *walletState) debit(txHash string, amount decimal.Decimal) error {
	if w.balance().LessThan(amount) {
		return ErrInsufficientFunds
	}
	remaining := amount
	kept := w.utxos[:0:0]
	for _, u := range w.utxos {
		if !remaining.IsPositive() {
			kept = append(kept, u)
			continue
		}
		if u.Amount.LessThanOrEqual(remaining) {
			remaining = remaining.Sub(u.Amount)
			continue
		}
		change := u.Amount.Sub(remaining)
		remaining = decimal.Zero
		kept = append(kept, api.UTXO{TxHash: txHash, OutputIndex: len(kept), Amount: change})
	}
	w.utxos = kept
	return nil
}

// Chain is a concurrency-safe in-memory stand-in for the remote ledger
// service, sufficient for developing the client against. It keeps accounts,
// a pending set and a toy proof-of-work chain; nothing is persisted.
type Chain struct {
	mu sync.Mutex

	fee    decimal.Decimal
	reward decimal.Decimal

	usersByEmail  map[string]*user
	usersByID     map[string]*user
	tokens        map[string]string // bearer token -> user id
	wallets       map[string]*walletState
	otps          map[string]string
	beneficiaries map[string][]api.Beneficiary // user id -> saved recipients
	zakat         map[string][]api.ZakatRecord // wallet id -> deductions

	pending      []api.Transaction
	blocks       []api.Block
	totalTxCount int64
	totalRewards decimal.Decimal
}

// NewChain builds a simulator with a genesis block and default fee/reward.
func NewChain() *Chain {
	c := &Chain{
		fee:           defaultFee,
		reward:        defaultReward,
		usersByEmail:  make(map[string]*user),
		usersByID:     make(map[string]*user),
		tokens:        make(map[string]string),
		wallets:       make(map[string]*walletState),
		otps:          make(map[string]string),
		beneficiaries: make(map[string][]api.Beneficiary),
		zakat:         make(map[string][]api.ZakatRecord),
	}
	genesis := api.Block{
		Index:     0,
		Timestamp: time.Now().UTC(),
	}
	genesis.Hash = mineHash(&genesis)
	c.blocks = append(c.blocks, genesis)
	return c
}

// Register creates an identity plus wallet and funds it with a development
// grant so transfers work out of the box.
func (c *Chain) Register(email, fullName, nationalID, password string) (api.AuthResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	if _, exists := c.usersByEmail[email]; exists {
		return api.AuthResult{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return api.AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	walletID := "wallet-" + uuid.NewString()
	w := &walletState{Wallet: api.Wallet{
		WalletID:  walletID,
		PublicKey: "pub-" + uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}}
	w.credit(txHash("grant", walletID), devGrant)
	c.wallets[walletID] = w

	u := &user{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		NationalID:   nationalID,
		PasswordHash: hash,
		WalletID:     walletID,
	}
	c.usersByEmail[email] = u
	c.usersByID[u.ID] = u

	return c.issueLocked(u), nil
}

// Login verifies credentials and issues a fresh bearer token.
func (c *Chain) Login(email, password string) (api.AuthResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, ok := c.usersByEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return api.AuthResult{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return api.AuthResult{}, ErrInvalidCredentials
	}
	return c.issueLocked(u), nil
}

func (c *Chain) issueLocked(u *user) api.AuthResult {
	token := uuid.NewString()
	c.tokens[token] = u.ID
	return api.AuthResult{User: c.viewLocked(u), Token: token}
}

func (c *Chain) viewLocked(u *user) api.User {
	return api.User{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		WalletID:  u.WalletID,
		PublicKey: c.wallets[u.WalletID].PublicKey,
	}
}

// Authenticate resolves a bearer token to its user id.
func (c *Chain) Authenticate(token string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.tokens[token]
	return id, ok
}

// UserByID returns the identity view for a known user.
func (c *Chain) UserByID(id string) (api.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.usersByID[id]
	if !ok {
		return api.User{}, ErrUserNotFound
	}
	return c.viewLocked(u), nil
}

// UpdateProfile applies a partial identity update.
func (c *Chain) UpdateProfile(id string, fullName, email *string) (api.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.usersByID[id]
	if !ok {
		return api.User{}, ErrUserNotFound
	}
	if fullName != nil && strings.TrimSpace(*fullName) != "" {
		u.FullName = strings.TrimSpace(*fullName)
	}
	if email != nil && strings.Contains(*email, "@") {
		next := strings.ToLower(strings.TrimSpace(*email))
		if other, exists := c.usersByEmail[next]; exists && other != u {
			return api.User{}, ErrEmailTaken
		}
		delete(c.usersByEmail, u.Email)
		u.Email = next
		c.usersByEmail[next] = u
	}
	return c.viewLocked(u), nil
}

// IssueOTP stores (and returns) a one-time code for the address. The real
// service emails it; the simulator logs it instead.
func (c *Chain) IssueOTP(email string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	code := fmt.Sprintf("%06d", time.Now().UnixNano()%1_000_000)
	c.otps[strings.ToLower(strings.TrimSpace(email))] = code
	return code
}

// VerifyOTP checks and consumes a one-time code.
func (c *Chain) VerifyOTP(email, otp string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := strings.ToLower(strings.TrimSpace(email))
	if c.otps[key] == "" || c.otps[key] != otp {
		return ErrInvalidOTP
	}
	delete(c.otps, key)
	return nil
}

// WalletByID resolves a wallet record.
func (c *Chain) WalletByID(walletID string) (api.Wallet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.wallets[walletID]
	if !ok {
		return api.Wallet{}, ErrWalletNotFound
	}
	return w.Wallet, nil
}

// BalanceOf returns the wallet's balance snapshot.
func (c *Chain) BalanceOf(walletID string) (api.Balance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.wallets[walletID]
	if !ok {
		return api.Balance{}, ErrWalletNotFound
	}
	return api.Balance{Balance: w.balance(), UTXOCount: len(w.utxos)}, nil
}

// UTXOsOf lists the wallet's unspent outputs.
func (c *Chain) UTXOsOf(walletID string) ([]api.UTXO, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.wallets[walletID]
	if !ok {
		return nil, ErrWalletNotFound
	}
	out := make([]api.UTXO, len(w.utxos))
	copy(out, w.utxos)
	return out, nil
}

// SubmitTransaction reserves amount+fee from the sender and queues the
// transfer; the receiver is credited when the transaction is mined.
func (c *Chain) SubmitTransaction(req api.CreateTransactionRequest) (api.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !req.Amount.IsPositive() {
		return api.Transaction{}, ErrBadAmount
	}
	sender, ok := c.wallets[req.SenderWalletID]
	if !ok {
		return api.Transaction{}, ErrWalletNotFound
	}
	if _, ok := c.wallets[req.ReceiverWalletID]; !ok {
		return api.Transaction{}, ErrWalletNotFound
	}

	hash := txHash(req.SenderWalletID, req.ReceiverWalletID, req.Amount.String(), uuid.NewString())
	if err := sender.debit(hash, req.Amount.Add(c.fee)); err != nil {
		return api.Transaction{}, err
	}

	tx := api.Transaction{
		Hash:             hash,
		SenderWalletID:   req.SenderWalletID,
		ReceiverWalletID: req.ReceiverWalletID,
		Amount:           req.Amount,
		Note:             req.Note,
		CreatedAt:        time.Now().UTC(),
	}
	c.pending = append(c.pending, tx)
	return tx, nil
}

// Pending returns the full unconfirmed set.
func (c *Chain) Pending() []api.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.Transaction, len(c.pending))
	copy(out, c.pending)
	return out
}

// TransactionByHash searches the pending set first, then the chain.
func (c *Chain) TransactionByHash(hash string) (api.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, tx := range c.pending {
		if tx.Hash == hash {
			return tx, nil
		}
	}
	for _, b := range c.blocks {
		for _, tx := range b.Transactions {
			if tx.Hash == hash {
				return tx, nil
			}
		}
	}
	return api.Transaction{}, ErrTxNotFound
}

// TransactionsOf pages the wallet's confirmed history, newest block first.
func (c *Chain) TransactionsOf(walletID string, limit, offset int) ([]api.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.wallets[walletID]; !ok {
		return nil, ErrWalletNotFound
	}

	var all []api.Transaction
	for i := len(c.blocks) - 1; i >= 0; i-- {
		for _, tx := range c.blocks[i].Transactions {
			if tx.SenderWalletID == walletID || tx.ReceiverWalletID == walletID {
				all = append(all, tx)
			}
		}
	}
	if offset >= len(all) {
		return []api.Transaction{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// Mine assembles the pending set plus a coinbase reward into a new block.
// Transaction fees and the reward go to the miner's wallet.
func (c *Chain) Mine(minerWalletID string) (api.MinedBlock, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	miner, ok := c.wallets[minerWalletID]
	if !ok {
		return api.MinedBlock{}, ErrWalletNotFound
	}
	if len(c.pending) == 0 {
		return api.MinedBlock{}, ErrNothingToMine
	}

	index := int64(len(c.blocks))
	now := time.Now().UTC()

	txs := make([]api.Transaction, 0, len(c.pending)+1)
	for _, tx := range c.pending {
		confirmed := tx
		confirmed.BlockIndex = &index
		if receiver, ok := c.wallets[tx.ReceiverWalletID]; ok {
			receiver.credit(tx.Hash, tx.Amount)
		}
		miner.credit(tx.Hash, c.fee)
		txs = append(txs, confirmed)
	}

	coinbase := api.Transaction{
		Hash:             txHash("coinbase", minerWalletID, now.String()),
		ReceiverWalletID: minerWalletID,
		Amount:           c.reward,
		CreatedAt:        now,
		BlockIndex:       &index,
	}
	miner.credit(coinbase.Hash, c.reward)
	txs = append(txs, coinbase)

	block := api.Block{
		Index:        index,
		PreviousHash: c.blocks[len(c.blocks)-1].Hash,
		Timestamp:    now,
		Transactions: txs,
	}
	block.Hash = mineHash(&block)

	c.blocks = append(c.blocks, block)
	c.totalTxCount += int64(len(txs))
	c.totalRewards = c.totalRewards.Add(c.reward)
	c.pending = nil

	return api.MinedBlock{
		BlockIndex: block.Index,
		Hash:       block.Hash,
		Nonce:      block.Nonce,
		Timestamp:  block.Timestamp,
	}, nil
}

// Blocks pages the chain, newest first.
func (c *Chain) Blocks(limit, offset int) []api.Block {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]api.Block, 0, limit)
	for i := len(c.blocks) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, c.blocks[i])
	}
	return out
}

// BlockByIndex fetches one block.
func (c *Chain) BlockByIndex(index int64) (api.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= int64(len(c.blocks)) {
		return api.Block{}, ErrBlockNotFound
	}
	return c.blocks[index], nil
}

// Validate re-checks every block's hash and link.
func (c *Chain) Validate() api.ValidationReport {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, b := range c.blocks {
		if b.Hash != blockHash(&b) {
			return api.ValidationReport{IsValid: false, BlockCount: int64(len(c.blocks))}
		}
		if i > 0 && b.PreviousHash != c.blocks[i-1].Hash {
			return api.ValidationReport{IsValid: false, BlockCount: int64(len(c.blocks))}
		}
	}
	return api.ValidationReport{IsValid: true, BlockCount: int64(len(c.blocks))}
}

// Info reports the chain summary the client displays.
func (c *Chain) Info() api.ChainInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return api.ChainInfo{
		BlockHeight:        int64(len(c.blocks)),
		TotalTransactions:  c.totalTxCount,
		PendingCount:       len(c.pending),
		TransactionFee:     c.fee,
		CurrentBlockReward: c.reward,
		Difficulty:         simDifficulty,
	}
}

// MiningStats reports display-only mining statistics.
func (c *Chain) MiningStats() api.MiningStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return api.MiningStats{
		TotalBlocksMined:    int64(len(c.blocks) - 1),
		TotalRewards:        c.totalRewards,
		PendingTransactions: len(c.pending),
	}
}

// Beneficiaries lists the user's saved recipients.
func (c *Chain) Beneficiaries(userID string) []api.Beneficiary {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.Beneficiary, len(c.beneficiaries[userID]))
	copy(out, c.beneficiaries[userID])
	return out
}

// AddBeneficiary saves a recipient after resolving its wallet.
func (c *Chain) AddBeneficiary(userID string, req api.AddBeneficiaryRequest) (api.Beneficiary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.wallets[req.BeneficiaryWalletID]; !ok {
		return api.Beneficiary{}, ErrWalletNotFound
	}
	b := api.Beneficiary{
		ID:                  uuid.NewString(),
		BeneficiaryWalletID: req.BeneficiaryWalletID,
		Nickname:            req.Nickname,
		CreatedAt:           time.Now().UTC(),
	}
	c.beneficiaries[userID] = append(c.beneficiaries[userID], b)
	return b, nil
}

// DeleteBeneficiary removes a saved recipient by record id.
func (c *Chain) DeleteBeneficiary(userID, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.beneficiaries[userID]
	for i, b := range list {
		if b.ID == id {
			c.beneficiaries[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return ErrBeneficiaryMissing
}

// TriggerZakat applies the periodic deduction to every wallet at or above
// the nisab threshold and records it.
func (c *Chain) TriggerZakat() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	applied := 0
	now := time.Now().UTC()
	for id, w := range c.wallets {
		bal := w.balance()
		if bal.LessThan(zakatNisab) {
			continue
		}
		due := bal.Mul(zakatRate).Round(2)
		hash := txHash("zakat", id, now.String())
		if err := w.debit(hash, due); err != nil {
			continue
		}
		c.zakat[id] = append(c.zakat[id], api.ZakatRecord{
			ID:         uuid.NewString(),
			WalletID:   id,
			Amount:     due,
			DeductedAt: now,
		})
		applied++
	}
	return applied
}

// ZakatRecords lists the deductions applied to a wallet.
func (c *Chain) ZakatRecords(walletID string) []api.ZakatRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.ZakatRecord, len(c.zakat[walletID]))
	copy(out, c.zakat[walletID])
	return out
}

// MonthlyReport aggregates confirmed activity per month for a wallet.
func (c *Chain) MonthlyReport(walletID string) ([]api.MonthlyReportEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.wallets[walletID]; !ok {
		return nil, ErrWalletNotFound
	}

	byMonth := make(map[string]*api.MonthlyReportEntry)
	var months []string
	for _, b := range c.blocks {
		for _, tx := range b.Transactions {
			if tx.SenderWalletID != walletID && tx.ReceiverWalletID != walletID {
				continue
			}
			month := tx.CreatedAt.Format("2006-01")
			entry, ok := byMonth[month]
			if !ok {
				entry = &api.MonthlyReportEntry{Month: month}
				byMonth[month] = entry
				months = append(months, month)
			}
			entry.TransactionCount++
			if tx.SenderWalletID == walletID {
				entry.TotalSent = entry.TotalSent.Add(tx.Amount)
			} else {
				entry.TotalReceived = entry.TotalReceived.Add(tx.Amount)
			}
		}
	}

	out := make([]api.MonthlyReportEntry, 0, len(months))
	for _, m := range months {
		out = append(out, *byMonth[m])
	}
	return out, nil
}

func txHash(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

func blockHash(b *api.Block) string {
	content := fmt.Sprintf("%d|%s|%d|%d", b.Index, b.PreviousHash, b.Nonce, b.Timestamp.UnixNano())
	for _, tx := range b.Transactions {
		content += "|" + tx.Hash
	}
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// mineHash performs the simulator's toy proof-of-work: increment the nonce
// until the hash carries the difficulty prefix.
func mineHash(b *api.Block) string {
	prefix := strings.Repeat("0", simDifficulty)
	for {
		h := blockHash(b)
		if strings.HasPrefix(h, prefix) {
			return h
		}
		b.Nonce++
	}
}
