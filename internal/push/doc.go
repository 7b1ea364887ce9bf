// Package push delivers Web Push messages to the browser subscriptions of
// users. Delivery is best effort: every subscription gets exactly one send
// attempt, failures are counted and never returned to the caller, and
// subscriptions whose endpoint is gone are deleted after the batch settles.
package push
