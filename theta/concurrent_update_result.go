/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package theta

// UpdateResult classifies the outcome of a ConcurrentLocalBuffer update.
// It is diagnostic only: callers are never required to inspect it.
type UpdateResult int

const (
	// InsertedCountIncremented means the hash was new and is now retained.
	InsertedCountIncremented UpdateResult = iota
	// RejectedDuplicate means the hash was already retained.
	RejectedDuplicate
	// RejectedOverTheta means the hash was at or above the local or
	// last-observed shared theta and was not retained.
	RejectedOverTheta
	// Other means the update failed for a reason unrelated to theta or
	// duplication (a malformed input, for instance).
	Other
)

func (r UpdateResult) String() string {
	switch r {
	case InsertedCountIncremented:
		return "InsertedCountIncremented"
	case RejectedDuplicate:
		return "RejectedDuplicate"
	case RejectedOverTheta:
		return "RejectedOverTheta"
	default:
		return "Other"
	}
}
