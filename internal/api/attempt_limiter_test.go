package api

import (
	"testing"
	"time"
)

func TestAttemptLimiterBlocksAfterLimitWithinWindow(t *testing.T) {
	limiter := newAttemptLimiter(3, time.Minute)
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	for index := 0; index < 3; index++ {
		if limiter.blocked("1.2.3.4", now) {
			t.Fatalf("unexpected block after %d failures", index)
		}
		limiter.addFailure("1.2.3.4", now)
	}
	if !limiter.blocked("1.2.3.4", now) {
		t.Fatal("expected key to be blocked after reaching the limit")
	}
	if limiter.blocked("5.6.7.8", now) {
		t.Fatal("expected other keys to be unaffected")
	}
}

func TestAttemptLimiterForgetsOldFailures(t *testing.T) {
	limiter := newAttemptLimiter(2, time.Minute)
	start := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	limiter.addFailure("ip", start)
	limiter.addFailure("ip", start.Add(10*time.Second))
	if !limiter.blocked("ip", start.Add(20*time.Second)) {
		t.Fatal("expected block inside the window")
	}
	if limiter.blocked("ip", start.Add(71*time.Second)) {
		t.Fatal("expected failures outside the window to expire")
	}
}

func TestAttemptLimiterReset(t *testing.T) {
	limiter := newAttemptLimiter(1, time.Hour)
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	limiter.addFailure("ip", now)
	limiter.reset("ip")
	if limiter.blocked("ip", now) {
		t.Fatal("expected reset to clear failures")
	}
}
