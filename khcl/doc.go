// Package khcl loads joint models from HCL.
//
// A model file declares producers:
//
//	producer "e" { value = 2 }
//	producer "g" { value = e * 10 }
//	producer "m" { value = n + g }
//	producer "n" { value = 3 }
//
// Every variable an expression refers to becomes an argument of the producer,
// so dependencies need not be listed. A producer without references is
// evaluated once while loading. Each producer yields a Point distribution over
// the value of its expression.
package khcl
