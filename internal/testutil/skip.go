// Package testutil holds helpers shared by package tests.
package testutil

import (
	"os"
	"testing"
)

// SkipNetworkEnv disables tests that open local TCP listeners.
const SkipNetworkEnv = "RISKDESK_TEST_SKIP_NETWORK"

// SkipIfNoNetwork skips the test if RISKDESK_TEST_SKIP_NETWORK is set.
// Sandboxes without loopback networking cannot run the fake API server.
func SkipIfNoNetwork(t testing.TB) {
	t.Helper()
	if os.Getenv(SkipNetworkEnv) != "" {
		t.Skipf("skipping network test: %s is set", SkipNetworkEnv)
	}
}
