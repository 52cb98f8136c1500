// Package dispatch sends one text per roster entry through the gateway and
// appends a delivery log row for every send the gateway accepted.
//
// A failing send never aborts a batch: the failure is recorded in the Result,
// logged, and the loop continues with the next entry. Only a store failure
// while writing the delivery log stops the batch.
package dispatch
