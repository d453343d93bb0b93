// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"
)

// Without an SDK installed these exercise the no-op paths: the helpers must
// be safe to call from any host, instrumented or not.

func TestStartSpan_NoSDK(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "compile.test")
	if ctx == nil {
		t.Fatal("StartSpan returned nil context")
	}
	if span == nil {
		t.Fatal("StartSpan returned nil span")
	}
	span.End()
}

func TestRecordError_NilSafe(t *testing.T) {
	RecordError(nil, errors.New("boom"))
	RecordError(nil, nil)

	_, span := StartSpan(context.Background(), "compile.test")
	defer span.End()
	RecordError(span, nil)
	RecordError(span, errors.New("boom"))
	SetSpanOK(span)
	SetSpanOK(nil)
}

func TestObserve_NoPanic(t *testing.T) {
	ObserveParse("ok", 3, 1, 2*time.Millisecond)
	ObserveParse("invalid_tool_reference", 0, 0, 0)
	ObserveJoinDecision("replan")
	ObserveJoinDecision("answer")
	ObserveJoinDecision("none")
}
