// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software provides the CPU compositing renderer for kiosk.
//
// The renderer draws into an in-memory pass buffer and presents by copying
// the finished pass onto the device's framebuffer, so it works with any
// device that implements kiosk.FramebufferTarget (the headless backend's
// devices do).
//
// Importing the package registers the renderer with the backend registry
// under the name "software":
//
//	import _ "github.com/gogpu/kiosk/backend/software"
//
// It is the fallback renderer: always constructible, no GPU required.
package software
