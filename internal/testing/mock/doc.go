// Package mock provides test doubles for raccoon's collaborators.
//
// MockClock pins the current time. Registry, Inventory and Publisher are
// in-memory implementations of the api capability interfaces that record
// what a pass asked of them; a shared CallLog captures the order of side
// effects across the inventory and the publisher.
package mock
