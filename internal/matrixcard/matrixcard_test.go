package matrixcard

import (
	"testing"

	"github.com/oldrealm/aegisauth/internal/model"
)

func testCard() *model.MatrixCardData {
	digits := make([][]byte, 8)
	for r := range digits {
		digits[r] = make([]byte, 8)
		for c := range digits[r] {
			digits[r][c] = byte((r*8 + c) % 10)
		}
	}
	return &model.MatrixCardData{
		DigitCount:     1,
		Height:         8,
		Width:          8,
		Digits:         digits,
		ChallengeCount: 4,
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	card := testCard()
	sessionKey := []byte("a-fake-forty-byte-session-key-value!!!!!")

	proof := Proof(card, 42, sessionKey)
	if !Verify(card, 42, sessionKey, proof) {
		t.Fatal("expected matching proof to verify")
	}
	if Verify(card, 42, []byte("different-session-key"), proof) {
		t.Fatal("expected mismatched session key to fail verification")
	}
}

func TestChallengeCells_Deterministic(t *testing.T) {
	card := testCard()
	a := ChallengeCells(card, 7)
	b := ChallengeCells(card, 7)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("cell %d differs between calls: %v vs %v", i, a[i], b[i])
		}
	}
}
