package ros2

import (
	"fmt"
	"regexp"

	"github.com/autodriver-poc/server/internal/agent/model"
)

// Rule assigns the first topic matching Pattern to the config slot at Path.
type Rule struct {
	Pattern *regexp.Regexp
	Path    string
}

func rule(pattern, path string) Rule {
	return Rule{Pattern: regexp.MustCompile(pattern), Path: path}
}

// DefaultRules is the ordered GALAXEA rule table: publish, follow feedback,
// main command and camera topics. Rules overlap on purpose; one topic may fill
// several slots.
var DefaultRules = []Rule{
	rule(`target_joint_state_arm_left`, "publish_topics.left_arm"),
	rule(`target_joint_state_arm_right`, "publish_topics.right_arm"),
	rule(`target_position_gripper_left`, "publish_topics.left_gripper"),
	rule(`target_position_gripper_right`, "publish_topics.right_gripper"),
	rule(`target_joint_state_torso`, "publish_topics.torso"),

	rule(`feedback_arm_left`, "follow_feedback_topics.left_arm"),
	rule(`feedback_arm_right`, "follow_feedback_topics.right_arm"),
	rule(`feedback_gripper_left`, "follow_feedback_topics.left_gripper"),
	rule(`feedback_gripper_right`, "follow_feedback_topics.right_gripper"),
	rule(`feedback_torso`, "follow_feedback_topics.torso"),

	rule(`target_joint_state_arm_left`, "main_cmd_topics.joint_left"),
	rule(`target_joint_state_arm_right`, "main_cmd_topics.joint_right"),
	rule(`target_joint_state_torso`, "main_cmd_topics.joint_torso"),
	rule(`target_pose_arm_left`, "main_cmd_topics.pose_left"),
	rule(`target_pose_arm_right`, "main_cmd_topics.pose_right"),
	rule(`target_pose_torso`, "main_cmd_topics.pose_torso"),
	rule(`target_position_gripper_left`, "main_cmd_topics.gripper_left"),
	rule(`target_position_gripper_right`, "main_cmd_topics.gripper_right"),

	rule(`camera_head/left.*compressed`, "camera_topics.top_left"),
	rule(`camera_head/right.*compressed`, "camera_topics.top_right"),
	rule(`camera_wrist_left.*compressed`, "camera_topics.wrist_left"),
	rule(`camera_wrist_right.*compressed`, "camera_topics.wrist_right"),
}

// DefaultRobotConfig returns the config with every topic slot empty and the
// static camera and joint settings filled in.
func DefaultRobotConfig() model.RobotConfig {
	return model.RobotConfig{
		CameraSize: model.CameraSizes{
			TopLeft:    [2]int{1280, 720},
			TopRight:   [2]int{1280, 720},
			WristLeft:  [2]int{640, 360},
			WristRight: [2]int{640, 360},
		},
		JointDim: model.JointDim{
			LeftArm:  6,
			RightArm: 6,
			Gripper:  1,
			Torso:    3,
			TorsoCut: -1,
		},
		ControlHz: 30,
	}
}

// DeriveConfig applies rules in order to topics. It is a pure function of its inputs.
func DeriveConfig(topics []string, rules []Rule) (model.RobotConfig, error) {
	cfg := DefaultRobotConfig()
	for _, r := range rules {
		slot, err := Slot(&cfg, r.Path)
		if err != nil {
			return model.RobotConfig{}, err
		}
		for _, topic := range topics {
			if r.Pattern.MatchString(topic) {
				*slot = topic
				break
			}
		}
	}
	return cfg, nil
}

// MissingSlots lists the rule destinations left empty in cfg.
func MissingSlots(cfg model.RobotConfig, rules []Rule) []string {
	var missing []string
	seen := map[string]bool{}
	for _, r := range rules {
		if seen[r.Path] {
			continue
		}
		seen[r.Path] = true
		if slot, err := Slot(&cfg, r.Path); err == nil && *slot == "" {
			missing = append(missing, r.Path)
		}
	}
	return missing
}

// Slot resolves a "group.key" destination path to the string field it names.
func Slot(cfg *model.RobotConfig, path string) (*string, error) {
	switch path {
	case "publish_topics.left_arm":
		return &cfg.PublishTopics.LeftArm, nil
	case "publish_topics.right_arm":
		return &cfg.PublishTopics.RightArm, nil
	case "publish_topics.left_gripper":
		return &cfg.PublishTopics.LeftGripper, nil
	case "publish_topics.right_gripper":
		return &cfg.PublishTopics.RightGripper, nil
	case "publish_topics.torso":
		return &cfg.PublishTopics.Torso, nil

	case "follow_feedback_topics.left_arm":
		return &cfg.FollowFeedbackTopics.LeftArm, nil
	case "follow_feedback_topics.right_arm":
		return &cfg.FollowFeedbackTopics.RightArm, nil
	case "follow_feedback_topics.left_gripper":
		return &cfg.FollowFeedbackTopics.LeftGripper, nil
	case "follow_feedback_topics.right_gripper":
		return &cfg.FollowFeedbackTopics.RightGripper, nil
	case "follow_feedback_topics.torso":
		return &cfg.FollowFeedbackTopics.Torso, nil

	case "main_cmd_topics.joint_left":
		return &cfg.MainCmdTopics.JointLeft, nil
	case "main_cmd_topics.joint_right":
		return &cfg.MainCmdTopics.JointRight, nil
	case "main_cmd_topics.joint_torso":
		return &cfg.MainCmdTopics.JointTorso, nil
	case "main_cmd_topics.pose_left":
		return &cfg.MainCmdTopics.PoseLeft, nil
	case "main_cmd_topics.pose_right":
		return &cfg.MainCmdTopics.PoseRight, nil
	case "main_cmd_topics.pose_torso":
		return &cfg.MainCmdTopics.PoseTorso, nil
	case "main_cmd_topics.gripper_left":
		return &cfg.MainCmdTopics.GripperLeft, nil
	case "main_cmd_topics.gripper_right":
		return &cfg.MainCmdTopics.GripperRight, nil

	case "camera_topics.top_left":
		return &cfg.CameraTopics.TopLeft, nil
	case "camera_topics.top_right":
		return &cfg.CameraTopics.TopRight, nil
	case "camera_topics.wrist_left":
		return &cfg.CameraTopics.WristLeft, nil
	case "camera_topics.wrist_right":
		return &cfg.CameraTopics.WristRight, nil
	}
	return nil, fmt.Errorf("unknown config path %q", path)
}
