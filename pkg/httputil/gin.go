package httputil

import "github.com/gin-gonic/gin"

// WriteError はProblemDetailをapplication/problem+jsonとして書き込む。
// Instanceが空の場合はリクエストパスで補う。
func WriteError(c *gin.Context, problem *ProblemDetail) {
	prepare(c, problem)
	c.JSON(problem.Status, problem)
}

// AbortWithError はWriteErrorと同じ応答を返し、後続のハンドラを実行しない。
func AbortWithError(c *gin.Context, problem *ProblemDetail) {
	prepare(c, problem)
	c.AbortWithStatusJSON(problem.Status, problem)
}

func prepare(c *gin.Context, problem *ProblemDetail) {
	if problem.Instance == "" && c.Request != nil {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentType)
}
