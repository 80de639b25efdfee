// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

// Package rdpbridge connects a host application to a remote desktop session
// engine and routes local input into the session.
//
// The engine does the protocol work: negotiation through a relay proxy,
// decoding and rendering into a Surface. This package drives the engine's
// lifecycle, reports status to the host and turns native keyboard, pointer
// and wheel input into batched device events.
//
// # Basic Usage
//
//	ctx := context.Background()
//
//	ctrl := rdpbridge.NewController(engine, rdpbridge.WithLogger(logger))
//	ctrl.OnStatus(func(s rdpbridge.Status) { log.Printf("status: %s", s) })
//	ctrl.OnError(func(msg string) { log.Printf("session failed: %s", msg) })
//
//	if err := ctrl.Init(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	info, err := ctrl.Connect(ctx, rdpbridge.ConnectOptions{
//		Username:     "alice",
//		Password:     "secret",
//		Destination:  "10.0.0.5:3389",
//		ProxyAddress: "wss://gateway.example.com/jet/rdp",
//		Surface:      surface,
//	})
//
// Connect blocks until the session ends. Use Start to get a Run handle
// instead, and Shutdown to end the session from another goroutine.
//
// # Input Events
//
// Once connected, input from the surface is routed automatically. Hosts can
// also inject events directly:
//
//	ctrl.CtrlAltDel()
//	ctrl.Submit(
//		rdpbridge.KeyPressed{Scancode: 0x001E},
//		rdpbridge.KeyReleased{Scancode: 0x001E},
//	)
//
// Input submitted while no session is connected is dropped.
//
// # Error Handling
//
//	if rdpbridge.IsBridgeError(err, rdpbridge.ErrWrongPassword, rdpbridge.ErrLogonFailure) {
//		log.Printf("Authentication failed: %v", err)
//	}
//
// Engine failures are returned as *EngineError, unchanged.
package rdpbridge
