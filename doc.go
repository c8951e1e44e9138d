// Package folio turns a ledger of portfolio transactions into a history of
// balances and then into time series analytics in a single destination
// currency.
//
// The core functionalities include:
//   - Value types: Money and Quantity on exact decimals, Currency from a closed
//     set, and Holding identified by ISIN, ticker or name (in that order).
//   - Transactions: validated at construction, missing price, quantity and
//     amount are inferred.
//   - Balances: an immutable snapshot of holdings and cash per currency.
//     Balances folds a sorted ledger into one snapshot per day.
//   - Analysis: daily allocations per holding and cash, earnings net of
//     deposits and vested compensation, time weighted rate of return, and
//     their decomposition by user defined attributes.
//   - Ledger formats: the standard CSV, Schwab exports, JSONL, and date/price
//     CSV histories.
//
// Nothing in this package reads files or logs, the project package wires it
// to a configuration.
package folio
