// Package server exposes the analysis pipeline over HTTP.
//
// # Endpoints
//
//   - POST /analyze: multipart form with an "image" file field. Returns the
//     aggregate analysis report as JSON.
//   - GET /healthz: liveness probe.
//
// # Status Codes
//
//   - 400: missing or undecodable image
//   - 401: missing or wrong API key (only when one is configured)
//   - 422: the sheet decoded but segmentation found no usable answer grid
//   - 500: anything else
//
// Per-block analysis failures are not HTTP errors; they surface as error
// entries inside the 200 response.
package server
