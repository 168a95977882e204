/*
Package logstream consumes the Alto platform's live log feed.

A Session owns one logical subscription to the server-sent event endpoint:
it connects with a fresh access token, decodes incoming frames into Records,
keeps the most recent records in a bounded FIFO buffer, and reconnects with
capped exponential backoff when the channel drops. Keepalive frames exist
only to hold the connection open and are never surfaced.

	session := logstream.New(logstream.Config{
		URL:    "https://api.alto-ai.tech/logs/stream",
		Tokens: client, // *altosdk.Client satisfies TokenSource
		OnState: func(st logstream.State) {
			// drive a status indicator
		},
	})
	session.Start()
	defer session.Close()

Connection state is an explicit three-state machine (connecting, connected,
reconnecting) driven through a single transition point, so the lifecycle is
testable without a live server. Close is the only exit: it cancels any
pending reconnect timer and tears down the open channel.
*/
package logstream
