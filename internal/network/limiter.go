// Copyright (c) 2026 Rustam Gilyazov and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package network

import (
	"time"

	"golang.org/x/time/rate"
)

// msgsPerMinute is the base request rate for the channel messages endpoints,
// conservative enough to stay under the per-app Graph throttling limits:
// https://learn.microsoft.com/en-us/graph/throttling-limits
const msgsPerMinute = 120

// NewLimiter returns a throttler for the messages endpoints.  boost is added
// to the base per-minute rate, burst is the number of events allowed to fire
// back-to-back.
func NewLimiter(boost uint, burst uint) *rate.Limiter {
	if burst == 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(every(boost)), int(burst))
}

func every(boost uint) time.Duration {
	return time.Minute / time.Duration(msgsPerMinute+int(boost))
}
