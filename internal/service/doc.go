// Package service holds the application services that sit between the
// transports (CLI and local HTTP API) and the stores.
//
// CardService manages card content. StatsService summarises a deck. The
// review workflow itself lives in the card_review subpackage.
//
// Services depend on small repository interfaces rather than on store types
// directly; the adapters in this package bridge the two and bind repositories
// to a transaction through WithTx.
package service
