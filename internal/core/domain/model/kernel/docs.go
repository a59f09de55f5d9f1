// Package kernel provides the value objects shared across the post tracking domain.
//
// The package includes:
//   - TrackingCode: the public 128-bit identifier of a post
//   - Dimensions and Parcel: the validated physical description of a shipment
//   - Quote: the volume and fee computed for a parcel
//
// Values are immutable once constructed. Zero values are invalid and report
// so through Validate.
package kernel
