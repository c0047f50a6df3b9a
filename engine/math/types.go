package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

/** @brief A 2x2 matrix stored row-major: [M00 M01; M10 M11]. */
type Matrix2 struct {
	M00, M01 float32
	M10, M11 float32
}

/**
 * @brief A 2D affine transform. A point p is mapped to p*Matrix + Offset.
 */
type Transform2 struct {
	/** @brief The linear part (rotation, scale, shear). */
	Matrix Matrix2
	/** @brief The translation. */
	Offset Vec2
}

/**
 * @brief An axis-aligned box.
 */
type BoundingBox struct {
	/** @brief The minimum corner. */
	BottomLeft Vec2
	/** @brief The maximum corner. */
	TopRight Vec2
}

/** @brief A linear RGBA colour, each channel in [0, 1]. */
type Color struct {
	R, G, B, A float32
}
