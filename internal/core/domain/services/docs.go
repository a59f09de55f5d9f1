// Package services provides the domain services of post tracking: rules that
// need more than one value object or an outside lookup and therefore do not
// belong to the Post aggregate itself.
//
// The package includes:
//   - FeeCalculator: parcel → volume and shipping fee
//   - TrackingCodeAllocator: draws tracking codes until one is unused
package services
