// SPDX-License-Identifier: MPL-2.0

// Package npm reads package.json manifests and resolves dependency versions for
// version-gated settings.
package npm
