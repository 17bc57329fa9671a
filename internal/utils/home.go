package utils

import "os"

var userHomeDirFunc = os.UserHomeDir
