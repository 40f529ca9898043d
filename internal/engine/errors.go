// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package engine

import "errors"

// ErrMidTrade is returned when a drop or pickup arrives while the
// requester has an open trade session. The handler cancels the session for
// both sides before replying.
var ErrMidTrade = errors.New("request while trade session open")
