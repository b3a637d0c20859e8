package model

// ArmTopics maps the arm, gripper and torso channels of a dual-arm robot to topics.
type ArmTopics struct {
	LeftArm      string `json:"left_arm"`
	RightArm     string `json:"right_arm"`
	LeftGripper  string `json:"left_gripper"`
	RightGripper string `json:"right_gripper"`
	Torso        string `json:"torso"`
}

// MainCmdTopics lists the command topics the driver node listens on.
type MainCmdTopics struct {
	JointLeft    string `json:"joint_left"`
	JointRight   string `json:"joint_right"`
	JointTorso   string `json:"joint_torso"`
	PoseLeft     string `json:"pose_left"`
	PoseRight    string `json:"pose_right"`
	PoseTorso    string `json:"pose_torso"`
	GripperLeft  string `json:"gripper_left"`
	GripperRight string `json:"gripper_right"`
}

// CameraTopics maps the four cameras to their compressed image topics.
type CameraTopics struct {
	TopLeft    string `json:"top_left"`
	TopRight   string `json:"top_right"`
	WristLeft  string `json:"wrist_left"`
	WristRight string `json:"wrist_right"`
}

// CameraSizes holds (width, height) per camera.
type CameraSizes struct {
	TopLeft    [2]int `json:"top_left"`
	TopRight   [2]int `json:"top_right"`
	WristLeft  [2]int `json:"wrist_left"`
	WristRight [2]int `json:"wrist_right"`
}

type JointDim struct {
	LeftArm  int `json:"left_arm"`
	RightArm int `json:"right_arm"`
	Gripper  int `json:"gripper"`
	Torso    int `json:"torso"`
	TorsoCut int `json:"torso_cut"`
}

// RobotConfig is the ROBOT_CONFIG literal of the GALAXEA node template.
// Field order is the serialization order.
type RobotConfig struct {
	PublishTopics        ArmTopics     `json:"publish_topics"`
	FollowFeedbackTopics ArmTopics     `json:"follow_feedback_topics"`
	MainCmdTopics        MainCmdTopics `json:"main_cmd_topics"`
	CameraTopics         CameraTopics  `json:"camera_topics"`
	CameraSize           CameraSizes   `json:"camera_size"`
	JointDim             JointDim      `json:"joint_dim"`
	ControlHz            int           `json:"control_hz"`
}

// Calculator tool input.
type OperandsInput struct {
	A int `json:"a"`
	B int `json:"b"`
}

type KnowledgeQueryInput struct {
	Query string `json:"query"`
}

type ParseTopicsInput struct {
	TopicList []string `json:"topic_list" jsonschema_description:"ROS2 topic names as returned by ros2_get_topic_list"`
}

type RenderTemplateInput struct {
	RobotConfig RobotConfig `json:"robot_config" jsonschema_description:"Robot configuration produced by ros2_parse_topic_to_config"`
}
