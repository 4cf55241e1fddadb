package kernel

import "math"

// ComputeVertexNormals replaces the mesh's normal array with per-vertex
// shading normals obtained by averaging the (area-weighted) face normals
// of all triangles incident on each vertex. The cross products are left
// unnormalized during accumulation so larger faces contribute more.
//
// This runs once on the final mesh of an evaluation; intermediate boolean
// results never need shading normals.
func ComputeVertexNormals(m *Mesh) {
	numVerts := m.VertexCount()
	normals := make([]float32, numVerts*3)

	numTris := m.TriangleCount()
	for t := 0; t < numTris; t++ {
		i0 := m.Indices[t*3+0]
		i1 := m.Indices[t*3+1]
		i2 := m.Indices[t*3+2]

		ax, ay, az := float64(m.Vertices[i0*3]), float64(m.Vertices[i0*3+1]), float64(m.Vertices[i0*3+2])
		bx, by, bz := float64(m.Vertices[i1*3]), float64(m.Vertices[i1*3+1]), float64(m.Vertices[i1*3+2])
		cx, cy, cz := float64(m.Vertices[i2*3]), float64(m.Vertices[i2*3+1]), float64(m.Vertices[i2*3+2])

		e1x, e1y, e1z := bx-ax, by-ay, bz-az
		e2x, e2y, e2z := cx-ax, cy-ay, cz-az

		nx := float32(e1y*e2z - e1z*e2y)
		ny := float32(e1z*e2x - e1x*e2z)
		nz := float32(e1x*e2y - e1y*e2x)

		for _, idx := range [3]uint32{i0, i1, i2} {
			normals[idx*3+0] += nx
			normals[idx*3+1] += ny
			normals[idx*3+2] += nz
		}
	}

	for i := 0; i < numVerts; i++ {
		nx := float64(normals[i*3+0])
		ny := float64(normals[i*3+1])
		nz := float64(normals[i*3+2])
		length := math.Sqrt(nx*nx + ny*ny + nz*nz)
		if length > 1e-12 {
			normals[i*3+0] = float32(nx / length)
			normals[i*3+1] = float32(ny / length)
			normals[i*3+2] = float32(nz / length)
		}
	}

	m.Normals = normals
}
