package ledgersim

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/barqchain/walletctl/internal/api"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func registerUser(t *testing.T, c *Chain, email string) api.AuthResult {
	t.Helper()
	res, err := c.Register(email, "Test User", "42101-1234567-1", "s3cret!")
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return res
}

func TestRegisterGrantsDevBalance(t *testing.T) {
	c := NewChain()
	res := registerUser(t, c, "a@b.com")

	bal, err := c.BalanceOf(res.User.WalletID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !bal.Balance.Equal(dec("100")) || bal.UTXOCount != 1 {
		t.Fatalf("unexpected grant: %+v", bal)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	c := NewChain()
	registerUser(t, c, "a@b.com")
	if _, err := c.Register("A@B.com", "x", "y", "pw"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	c := NewChain()
	registerUser(t, c, "a@b.com")

	res, err := c.Login("a@b.com", "s3cret!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if userID, ok := c.Authenticate(res.Token); !ok || userID != res.User.ID {
		t.Fatalf("token not usable: %v %v", userID, ok)
	}

	if _, err := c.Login("a@b.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestOTPIsConsumedOnVerify(t *testing.T) {
	c := NewChain()
	code := c.IssueOTP("a@b.com")

	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}
	if err := c.VerifyOTP("a@b.com", wrong); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("wrong code must be rejected, got %v", err)
	}
	if err := c.VerifyOTP("a@b.com", code); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := c.VerifyOTP("a@b.com", code); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("code must be single-use, got %v", err)
	}
}

func TestSubmitReservesAmountPlusFee(t *testing.T) {
	c := NewChain()
	sender := registerUser(t, c, "sender@b.com")
	receiver := registerUser(t, c, "receiver@b.com")

	_, err := c.SubmitTransaction(api.CreateTransactionRequest{
		SenderWalletID:   sender.User.WalletID,
		ReceiverWalletID: receiver.User.WalletID,
		Amount:           dec("25"),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	senderBal, _ := c.BalanceOf(sender.User.WalletID)
	if !senderBal.Balance.Equal(dec("74.9")) {
		t.Fatalf("sender must be debited amount+fee, got %s", senderBal.Balance)
	}
	receiverBal, _ := c.BalanceOf(receiver.User.WalletID)
	if !receiverBal.Balance.Equal(dec("100")) {
		t.Fatalf("receiver must not be credited before mining, got %s", receiverBal.Balance)
	}
	if len(c.Pending()) != 1 {
		t.Fatalf("expected one pending transaction")
	}
}

func TestSubmitRejectsUnaffordable(t *testing.T) {
	c := NewChain()
	sender := registerUser(t, c, "sender@b.com")
	receiver := registerUser(t, c, "receiver@b.com")

	// 100 balance, 0.1 fee: 99.95 + 0.1 > 100.
	_, err := c.SubmitTransaction(api.CreateTransactionRequest{
		SenderWalletID:   sender.User.WalletID,
		ReceiverWalletID: receiver.User.WalletID,
		Amount:           dec("99.95"),
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestMineConfirmsPendingAndPaysMiner(t *testing.T) {
	c := NewChain()
	sender := registerUser(t, c, "sender@b.com")
	receiver := registerUser(t, c, "receiver@b.com")
	miner := registerUser(t, c, "miner@b.com")

	if _, err := c.SubmitTransaction(api.CreateTransactionRequest{
		SenderWalletID:   sender.User.WalletID,
		ReceiverWalletID: receiver.User.WalletID,
		Amount:           dec("25"),
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	block, err := c.Mine(miner.User.WalletID)
	if err != nil {
		t.Fatalf("mine: %v", err)
	}
	if block.BlockIndex != 1 {
		t.Fatalf("unexpected block index: %d", block.BlockIndex)
	}

	if len(c.Pending()) != 0 {
		t.Fatal("pending set must be drained")
	}
	receiverBal, _ := c.BalanceOf(receiver.User.WalletID)
	if !receiverBal.Balance.Equal(dec("125")) {
		t.Fatalf("receiver not credited: %s", receiverBal.Balance)
	}
	minerBal, _ := c.BalanceOf(miner.User.WalletID)
	if !minerBal.Balance.Equal(dec("150.1")) {
		t.Fatalf("miner must earn reward+fee: %s", minerBal.Balance)
	}

	confirmed, err := c.TransactionsOf(receiver.User.WalletID, 20, 0)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(confirmed) != 1 || confirmed[0].BlockIndex == nil || *confirmed[0].BlockIndex != 1 {
		t.Fatalf("unexpected confirmed history: %+v", confirmed)
	}
}

func TestMineWithoutPending(t *testing.T) {
	c := NewChain()
	miner := registerUser(t, c, "miner@b.com")
	if _, err := c.Mine(miner.User.WalletID); !errors.Is(err, ErrNothingToMine) {
		t.Fatalf("expected ErrNothingToMine, got %v", err)
	}
}

func TestValidateAcceptsHonestChain(t *testing.T) {
	c := NewChain()
	sender := registerUser(t, c, "sender@b.com")
	receiver := registerUser(t, c, "receiver@b.com")

	for i := 0; i < 3; i++ {
		if _, err := c.SubmitTransaction(api.CreateTransactionRequest{
			SenderWalletID:   sender.User.WalletID,
			ReceiverWalletID: receiver.User.WalletID,
			Amount:           dec("1"),
		}); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		if _, err := c.Mine(sender.User.WalletID); err != nil {
			t.Fatalf("mine %d: %v", i, err)
		}
	}

	report := c.Validate()
	if !report.IsValid || report.BlockCount != 4 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestValidateDetectsTampering(t *testing.T) {
	c := NewChain()
	sender := registerUser(t, c, "sender@b.com")
	receiver := registerUser(t, c, "receiver@b.com")
	if _, err := c.SubmitTransaction(api.CreateTransactionRequest{
		SenderWalletID:   sender.User.WalletID,
		ReceiverWalletID: receiver.User.WalletID,
		Amount:           dec("1"),
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := c.Mine(sender.User.WalletID); err != nil {
		t.Fatalf("mine: %v", err)
	}

	c.blocks[1].Transactions[0].Amount = dec("9999")
	c.blocks[1].Transactions[0].Hash = "forged"

	if report := c.Validate(); report.IsValid {
		t.Fatal("tampered chain must not validate")
	}
}

func TestBeneficiaryLifecycle(t *testing.T) {
	c := NewChain()
	owner := registerUser(t, c, "owner@b.com")
	friend := registerUser(t, c, "friend@b.com")

	if _, err := c.AddBeneficiary(owner.User.ID, api.AddBeneficiaryRequest{
		BeneficiaryWalletID: "wallet-unknown",
	}); !errors.Is(err, ErrWalletNotFound) {
		t.Fatalf("unknown wallet must be rejected, got %v", err)
	}

	b, err := c.AddBeneficiary(owner.User.ID, api.AddBeneficiaryRequest{
		BeneficiaryWalletID: friend.User.WalletID,
		Nickname:            "Friend",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := c.Beneficiaries(owner.User.ID); len(got) != 1 || got[0].Nickname != "Friend" {
		t.Fatalf("unexpected list: %+v", got)
	}

	if err := c.DeleteBeneficiary(owner.User.ID, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := c.Beneficiaries(owner.User.ID); len(got) != 0 {
		t.Fatalf("expected empty list, got %+v", got)
	}
}

func TestZakatAppliesAboveNisab(t *testing.T) {
	c := NewChain()
	rich := registerUser(t, c, "rich@b.com") // 100 >= 85

	if applied := c.TriggerZakat(); applied != 1 {
		t.Fatalf("expected one wallet charged, got %d", applied)
	}
	bal, _ := c.BalanceOf(rich.User.WalletID)
	if !bal.Balance.Equal(dec("97.5")) {
		t.Fatalf("expected 2.5%% deduction, got %s", bal.Balance)
	}
	records := c.ZakatRecords(rich.User.WalletID)
	if len(records) != 1 || !records[0].Amount.Equal(dec("2.5")) {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestMonthlyReportAggregates(t *testing.T) {
	c := NewChain()
	sender := registerUser(t, c, "sender@b.com")
	receiver := registerUser(t, c, "receiver@b.com")

	if _, err := c.SubmitTransaction(api.CreateTransactionRequest{
		SenderWalletID:   sender.User.WalletID,
		ReceiverWalletID: receiver.User.WalletID,
		Amount:           dec("10"),
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := c.Mine(receiver.User.WalletID); err != nil {
		t.Fatalf("mine: %v", err)
	}

	report, err := c.MonthlyReport(sender.User.WalletID)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report) != 1 || !report[0].TotalSent.Equal(dec("10")) || report[0].TransactionCount != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}
