package hand

// NYUJointCount is how many joints the NYU hand pose dataset annotates per
// frame.
const NYUJointCount = 36

// NYUEvaluationJoints indexes the 14 joint subset most pose work on the NYU
// dataset evaluates against, following Tompson et al. (2014).
var NYUEvaluationJoints = []int{0, 3, 6, 9, 12, 15, 18, 21, 24, 25, 27, 30, 31, 32}
