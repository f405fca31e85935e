// Command omega-logon-demo ports original_source/omega_client/examples/logon_logoff.py:
// log on with one account's credentials, heartbeat periodically, then log
// off and clean up.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/fund3/omega-client/config"
	"github.com/fund3/omega-client/messaging/dispatch"
	"github.com/fund3/omega-client/messaging/wiretypes"
	"github.com/fund3/omega-client/omega"
)

const (
	omegaEndpoint  = "tcp://127.0.0.1:9999"
	omegaServerKey = "omega-server-curve-public-key"
)

func main() {
	// client_id is assigned by Fund3; one client may have multiple accounts.
	const clientID = 1
	// sender_comp_id identifies the machine sending requests, unique per
	// machine so responses route back correctly.
	senderCompID := uuid.NewString()

	cfg, err := config.New(
		config.WithEndpoint(omegaEndpoint),
		config.WithServerPublicKey(omegaServerKey),
		config.WithIdentity(clientID, senderCompID, ""),
	)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	conn, err := omega.Connect(context.Background(), cfg, dispatch.PrintingHandler{Logger: cfg.Logger})
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	if err := conn.WaitUntilRunning(context.Background()); err != nil {
		log.Fatalf("wait until running: %v", err)
	}

	// account_id is assigned by Fund3, unique per exchange account.
	const accountID = 2
	credentials := []wiretypes.AccountCredentials{{
		AccountInfo: wiretypes.AccountInfo{AccountID: accountID},
		APIKey:      "api_key",
		SecretKey:   "secret_key",
		Passphrase:  "passphrase", // only meaningful for exchanges that require one
	}}

	if _, err := conn.Logon("", credentials); err != nil {
		log.Fatalf("logon: %v", err)
	}
	time.Sleep(2 * time.Second)

	// Heartbeat every minute for 2 hours; the session should refresh its
	// access token at least once during that window.
	minutesLeft := 120
	for minutesLeft > 0 {
		if _, err := conn.Heartbeat(); err != nil {
			log.Printf("heartbeat: %v", err)
		}
		time.Sleep(time.Minute)
		minutesLeft--
	}

	if _, err := conn.Logoff(); err != nil {
		log.Printf("logoff: %v", err)
	}
	time.Sleep(2 * time.Second)
	conn.Stop()
	conn.Cleanup()
}
