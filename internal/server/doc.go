// Package server exposes the pass manager over HTTP in serve mode.
//
// # Endpoints
//
//   - POST /run      starts a full pass in the background and returns its pass id
//   - POST /dry-run  computes the plan and returns its counts, with no side effects
//   - GET  /plan     computes the plan and returns it in full
//   - GET  /healthz  liveness probe
//   - GET  /metrics  Prometheus exposition, when a gatherer is configured
//
// POST /run answers as soon as the pass is started:
//
//	{"code":200,"message":"Raccoon started async cleanup! See logs for more details.","passId":"..."}
//
// Its outcome is reported through logs and metrics only. Failures of
// /dry-run and /plan are returned as {"code":...,"message":...}: 409 when the
// gathered state is inconsistent (duplicate resource names) and 502 when a
// collaborator failed.
package server
