// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import "net/http"

// healthResponse reports service liveness and database reachability.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version"`
}

// Health answers liveness probes. It pings the database so a wedged
// SQLite file shows up as degraded rather than ok.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Database: "ok", Version: "v1"}

	if err := h.db.PingContext(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
		WriteJSON(w, http.StatusServiceUnavailable, Response{Data: resp})
		return
	}

	WriteSuccess(w, resp, nil)
}
