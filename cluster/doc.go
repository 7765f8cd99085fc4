// Package cluster partitions a 2-D token layout into K windows.
//
// Cluster runs k-means through the narrow KMeans interface (Lloyd with
// seeded k-means++ seeding by default), then renumbers windows by the
// polar angle of their centroid around the layout barycentre so that the
// initial ring order follows the geometry.
//
// Boundaries:
//   - K >= number of distinct points: each distinct point gets its own
//     window; the remaining windows stay empty.
//   - K == 1: every token lands in window 0.
package cluster
